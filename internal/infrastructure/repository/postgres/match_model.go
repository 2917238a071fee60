package postgres

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/riskibarqy/squad-stats/internal/domain/match"
)

type matchTableModel struct {
	ID            int64         `db:"id"`
	PublicID      string        `db:"public_id"`
	TeamID        string        `db:"team_public_id"`
	OpponentName  string        `db:"opponent_name"`
	Competition   string        `db:"competition"`
	IsHome        bool          `db:"is_home"`
	Status        string        `db:"status"`
	KickoffAt     time.Time     `db:"kickoff_at"`
	Venue         string        `db:"venue"`
	Formation     string        `db:"formation"`
	HomeScore     sql.NullInt64 `db:"home_score"`
	AwayScore     sql.NullInt64 `db:"away_score"`
	Lineup        []byte        `db:"lineup"`
	Substitutes   []byte        `db:"substitutes"`
	Goals         []byte        `db:"goals"`
	Cards         []byte        `db:"cards"`
	Substitutions []byte        `db:"substitutions"`
	PlayerRatings []byte        `db:"player_ratings"`
	Statistics    []byte        `db:"statistics"`
	ManOfTheMatch string        `db:"man_of_the_match"`
	CoachNotes    string        `db:"coach_notes"`
	CompletedAt   *time.Time    `db:"completed_at"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

type matchInsertModel struct {
	PublicID     string    `db:"public_id"`
	TeamID       string    `db:"team_public_id"`
	OpponentName string    `db:"opponent_name"`
	Competition  string    `db:"competition"`
	IsHome       bool      `db:"is_home"`
	Status       string    `db:"status"`
	KickoffAt    time.Time `db:"kickoff_at"`
	Venue        string    `db:"venue"`
}

type lineupEntryDocument struct {
	PlayerID     string  `json:"player_id"`
	Position     string  `json:"position"`
	PositionX    float64 `json:"position_x"`
	PositionY    float64 `json:"position_y"`
	IsSubstitute bool    `json:"is_substitute"`
	IsCaptain    bool    `json:"is_captain"`
}

type goalDocument struct {
	ID             string `json:"id"`
	PlayerID       string `json:"player_id"`
	Minute         int    `json:"minute"`
	Type           string `json:"type"`
	AssistPlayerID string `json:"assist_player_id,omitempty"`
}

type cardDocument struct {
	ID       string `json:"id"`
	PlayerID string `json:"player_id"`
	Minute   int    `json:"minute"`
	Type     string `json:"type"`
	Reason   string `json:"reason,omitempty"`
}

type substitutionDocument struct {
	ID          string `json:"id"`
	PlayerOutID string `json:"player_out_id"`
	PlayerInID  string `json:"player_in_id"`
	Minute      int    `json:"minute"`
	Reason      string `json:"reason"`
}

type playerRatingDocument struct {
	PlayerID string  `json:"player_id"`
	Rating   float64 `json:"rating"`
}

type sideStatisticsDocument struct {
	Possession    int `json:"possession"`
	Shots         int `json:"shots"`
	ShotsOnTarget int `json:"shots_on_target"`
	Corners       int `json:"corners"`
	Fouls         int `json:"fouls"`
	Offsides      int `json:"offsides"`
}

type statisticsDocument struct {
	Home sideStatisticsDocument `json:"home"`
	Away sideStatisticsDocument `json:"away"`
}

func (row matchTableModel) toDomain() (match.Match, error) {
	var (
		lineup      []lineupEntryDocument
		substitutes []string
		goals       []goalDocument
		cards       []cardDocument
		subs        []substitutionDocument
		ratings     []playerRatingDocument
		statistics  statisticsDocument
	)
	decoders := []struct {
		column string
		raw    []byte
		out    any
	}{
		{"lineup", row.Lineup, &lineup},
		{"substitutes", row.Substitutes, &substitutes},
		{"goals", row.Goals, &goals},
		{"cards", row.Cards, &cards},
		{"substitutions", row.Substitutions, &subs},
		{"player_ratings", row.PlayerRatings, &ratings},
		{"statistics", row.Statistics, &statistics},
	}
	for _, d := range decoders {
		if err := decodeJSONB(d.raw, d.out); err != nil {
			return match.Match{}, fmt.Errorf("match %s column %s: %w", row.PublicID, d.column, err)
		}
	}

	out := match.Match{
		ID:            row.PublicID,
		TeamID:        row.TeamID,
		OpponentName:  row.OpponentName,
		Competition:   row.Competition,
		IsHome:        row.IsHome,
		Status:        match.Status(row.Status),
		KickoffAt:     row.KickoffAt,
		Venue:         row.Venue,
		Formation:     row.Formation,
		Score:         match.Score{Home: intPtr(row.HomeScore), Away: intPtr(row.AwayScore)},
		Substitutes:   substitutes,
		Statistics:    statistics.toDomain(),
		ManOfTheMatch: row.ManOfTheMatch,
		CoachNotes:    row.CoachNotes,
		CompletedAt:   row.CompletedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	for _, item := range lineup {
		out.Lineup = append(out.Lineup, match.LineupEntry{
			PlayerID:     item.PlayerID,
			Position:     item.Position,
			PositionX:    item.PositionX,
			PositionY:    item.PositionY,
			IsSubstitute: item.IsSubstitute,
			IsCaptain:    item.IsCaptain,
		})
	}
	for _, item := range goals {
		out.Goals = append(out.Goals, goalFromDocument(item))
	}
	for _, item := range cards {
		out.Cards = append(out.Cards, cardFromDocument(item))
	}
	for _, item := range subs {
		out.Substitutions = append(out.Substitutions, substitutionFromDocument(item))
	}
	for _, item := range ratings {
		out.PlayerRatings = append(out.PlayerRatings, match.PlayerRating{PlayerID: item.PlayerID, Rating: item.Rating})
	}
	return out, nil
}

func lineupDocuments(items []match.LineupEntry) []lineupEntryDocument {
	out := make([]lineupEntryDocument, 0, len(items))
	for _, item := range items {
		out = append(out, lineupEntryDocument{
			PlayerID:     item.PlayerID,
			Position:     item.Position,
			PositionX:    item.PositionX,
			PositionY:    item.PositionY,
			IsSubstitute: item.IsSubstitute,
			IsCaptain:    item.IsCaptain,
		})
	}
	return out
}

func goalDocumentFrom(item match.Goal) goalDocument {
	return goalDocument{
		ID:             item.ID,
		PlayerID:       item.PlayerID,
		Minute:         item.Minute,
		Type:           string(item.Type),
		AssistPlayerID: item.AssistPlayerID,
	}
}

func goalFromDocument(item goalDocument) match.Goal {
	return match.Goal{
		ID:             item.ID,
		PlayerID:       item.PlayerID,
		Minute:         item.Minute,
		Type:           match.GoalType(item.Type),
		AssistPlayerID: item.AssistPlayerID,
	}
}

func cardDocumentFrom(item match.Card) cardDocument {
	return cardDocument{
		ID:       item.ID,
		PlayerID: item.PlayerID,
		Minute:   item.Minute,
		Type:     string(item.Type),
		Reason:   item.Reason,
	}
}

func cardFromDocument(item cardDocument) match.Card {
	return match.Card{
		ID:       item.ID,
		PlayerID: item.PlayerID,
		Minute:   item.Minute,
		Type:     match.CardType(item.Type),
		Reason:   item.Reason,
	}
}

func substitutionDocumentFrom(item match.Substitution) substitutionDocument {
	return substitutionDocument{
		ID:          item.ID,
		PlayerOutID: item.PlayerOutID,
		PlayerInID:  item.PlayerInID,
		Minute:      item.Minute,
		Reason:      string(item.Reason),
	}
}

func substitutionFromDocument(item substitutionDocument) match.Substitution {
	return match.Substitution{
		ID:          item.ID,
		PlayerOutID: item.PlayerOutID,
		PlayerInID:  item.PlayerInID,
		Minute:      item.Minute,
		Reason:      match.SubstitutionReason(item.Reason),
	}
}

func ratingDocuments(items []match.PlayerRating) []playerRatingDocument {
	out := make([]playerRatingDocument, 0, len(items))
	for _, item := range items {
		out = append(out, playerRatingDocument{PlayerID: item.PlayerID, Rating: item.Rating})
	}
	return out
}

func statisticsDocumentFrom(item match.Statistics) statisticsDocument {
	side := func(s match.SideStatistics) sideStatisticsDocument {
		return sideStatisticsDocument{
			Possession:    s.Possession,
			Shots:         s.Shots,
			ShotsOnTarget: s.ShotsOnTarget,
			Corners:       s.Corners,
			Fouls:         s.Fouls,
			Offsides:      s.Offsides,
		}
	}
	return statisticsDocument{Home: side(item.Home), Away: side(item.Away)}
}

func (d statisticsDocument) toDomain() match.Statistics {
	side := func(s sideStatisticsDocument) match.SideStatistics {
		return match.SideStatistics{
			Possession:    s.Possession,
			Shots:         s.Shots,
			ShotsOnTarget: s.ShotsOnTarget,
			Corners:       s.Corners,
			Fouls:         s.Fouls,
			Offsides:      s.Offsides,
		}
	}
	return match.Statistics{Home: side(d.Home), Away: side(d.Away)}
}
