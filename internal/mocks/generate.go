package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/statcache --output domain/statcache --outpkg statcachemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name EventPublisher --dir ../domain/match --output domain/match --outpkg matchmock --filename event_publisher_mock.go
