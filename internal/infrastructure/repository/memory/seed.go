package memory

import (
	"time"

	"github.com/riskibarqy/squad-stats/internal/domain/match"
	"github.com/riskibarqy/squad-stats/internal/domain/player"
	"github.com/riskibarqy/squad-stats/internal/domain/team"
	"github.com/riskibarqy/squad-stats/internal/domain/training"
)

const (
	TeamIDGarudaU17   = "team-garuda-u17"
	TeamIDRajawaliU15 = "team-rajawali-u15"
)

// Seeded counters start at zero; a reconcile run fills them from the match log.
func SeedTeams() []team.Team {
	return []team.Team{
		{ID: TeamIDGarudaU17, Name: "Garuda Muda U17", Short: "GRD", AgeGroup: "U17", CoachID: "coach-01"},
		{ID: TeamIDRajawaliU15, Name: "Rajawali U15", Short: "RJW", AgeGroup: "U15", CoachID: "coach-02"},
	}
}

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "grd-gk-01", TeamID: TeamIDGarudaU17, Name: "Raka Pratama", JerseyNumber: 1, Position: player.PositionGoalkeeper, IsActive: true},
		{ID: "grd-def-01", TeamID: TeamIDGarudaU17, Name: "Bima Saputra", JerseyNumber: 4, Position: player.PositionDefender, IsActive: true},
		{ID: "grd-def-02", TeamID: TeamIDGarudaU17, Name: "Fajar Nugroho", JerseyNumber: 5, Position: player.PositionDefender, IsActive: true},
		{ID: "grd-mid-01", TeamID: TeamIDGarudaU17, Name: "Dimas Ramadhan", JerseyNumber: 8, Position: player.PositionMidfielder, IsActive: true},
		{ID: "grd-mid-02", TeamID: TeamIDGarudaU17, Name: "Yoga Firmansyah", JerseyNumber: 10, Position: player.PositionMidfielder, IsActive: true},
		{ID: "grd-fwd-01", TeamID: TeamIDGarudaU17, Name: "Arya Wicaksono", JerseyNumber: 9, Position: player.PositionForward, IsActive: true},
		{ID: "grd-fwd-02", TeamID: TeamIDGarudaU17, Name: "Rizky Hidayat", JerseyNumber: 11, Position: player.PositionForward, IsActive: true},
		{ID: "grd-mid-03", TeamID: TeamIDGarudaU17, Name: "Galih Permana", JerseyNumber: 14, Position: player.PositionMidfielder, IsActive: true},
		{ID: "rjw-gk-01", TeamID: TeamIDRajawaliU15, Name: "Satria Wibowo", JerseyNumber: 1, Position: player.PositionGoalkeeper, IsActive: true},
		{ID: "rjw-def-01", TeamID: TeamIDRajawaliU15, Name: "Ilham Kurniawan", JerseyNumber: 3, Position: player.PositionDefender, IsActive: true},
		{ID: "rjw-mid-01", TeamID: TeamIDRajawaliU15, Name: "Naufal Akbar", JerseyNumber: 7, Position: player.PositionMidfielder, IsActive: true},
		{ID: "rjw-mid-02", TeamID: TeamIDRajawaliU15, Name: "Hafiz Maulana", JerseyNumber: 6, Position: player.PositionMidfielder, IsActive: true},
		{ID: "rjw-fwd-01", TeamID: TeamIDRajawaliU15, Name: "Kevin Sitompul", JerseyNumber: 9, Position: player.PositionForward, IsActive: true},
	}
}

func SeedMatches() []match.Match {
	garudaStarters := []match.LineupEntry{
		{PlayerID: "grd-gk-01", Position: "GK", PositionX: 50, PositionY: 5},
		{PlayerID: "grd-def-01", Position: "CB", PositionX: 35, PositionY: 25, IsCaptain: true},
		{PlayerID: "grd-def-02", Position: "CB", PositionX: 65, PositionY: 25},
		{PlayerID: "grd-mid-01", Position: "CM", PositionX: 40, PositionY: 50},
		{PlayerID: "grd-mid-02", Position: "CAM", PositionX: 60, PositionY: 60},
		{PlayerID: "grd-fwd-01", Position: "ST", PositionX: 50, PositionY: 85},
	}
	completed := func(t time.Time) *time.Time { return &t }

	return []match.Match{
		{
			ID:           "match-grd-001",
			TeamID:       TeamIDGarudaU17,
			OpponentName: "Persija Youth",
			Competition:  "Liga Pelajar",
			IsHome:       true,
			Status:       match.StatusCompleted,
			KickoffAt:    time.Date(2026, 8, 2, 8, 0, 0, 0, time.UTC),
			Venue:        "Lapangan Kuningan",
			Formation:    "2-2-1",
			Score:        match.NewScore(2, 1),
			Lineup:       garudaStarters,
			Substitutes:  []string{"grd-fwd-02", "grd-mid-03"},
			Goals: []match.Goal{
				{ID: "goal-001", PlayerID: "grd-fwd-01", Minute: 12, Type: match.GoalTypeOpenPlay, AssistPlayerID: "grd-mid-02"},
				{ID: "goal-002", PlayerID: "grd-fwd-02", Minute: 71, Type: match.GoalTypeHeader, AssistPlayerID: "grd-mid-01"},
			},
			Cards: []match.Card{
				{ID: "card-001", PlayerID: "grd-def-02", Minute: 40, Type: match.CardTypeYellow, Reason: "late tackle"},
			},
			Substitutions: []match.Substitution{
				{ID: "sub-001", PlayerOutID: "grd-fwd-01", PlayerInID: "grd-fwd-02", Minute: 60, Reason: match.SubstitutionReasonTactical},
			},
			PlayerRatings: []match.PlayerRating{
				{PlayerID: "grd-fwd-01", Rating: 8},
				{PlayerID: "grd-fwd-02", Rating: 7.5},
				{PlayerID: "grd-mid-02", Rating: 7},
			},
			ManOfTheMatch: "grd-fwd-01",
			CompletedAt:   completed(time.Date(2026, 8, 2, 9, 45, 0, 0, time.UTC)),
		},
		{
			ID:           "match-grd-002",
			TeamID:       TeamIDGarudaU17,
			OpponentName: "Bhayangkara Academy",
			IsHome:       false,
			Status:       match.StatusCompleted,
			KickoffAt:    time.Date(2026, 8, 9, 8, 0, 0, 0, time.UTC),
			Venue:        "Stadion Patriot",
			Formation:    "2-2-1",
			Score:        match.NewScore(0, 0),
			Lineup:       garudaStarters,
			Substitutes:  []string{"grd-fwd-02"},
			Cards: []match.Card{
				{ID: "card-002", PlayerID: "grd-mid-01", Minute: 55, Type: match.CardTypeYellow},
				{ID: "card-003", PlayerID: "grd-mid-01", Minute: 78, Type: match.CardTypeSecondYellow},
			},
			CompletedAt: completed(time.Date(2026, 8, 9, 9, 45, 0, 0, time.UTC)),
		},
		{
			ID:           "match-grd-003",
			TeamID:       TeamIDGarudaU17,
			OpponentName: "Persib Junior",
			Competition:  "Liga Pelajar",
			IsHome:       true,
			Status:       match.StatusScheduled,
			KickoffAt:    time.Date(2026, 11, 7, 8, 0, 0, 0, time.UTC),
			Venue:        "Lapangan Kuningan",
		},
		{
			ID:           "match-rjw-001",
			TeamID:       TeamIDRajawaliU15,
			OpponentName: "Bali United Youth",
			Competition:  "Piala Soeratin",
			IsHome:       false,
			Status:       match.StatusCompleted,
			KickoffAt:    time.Date(2026, 8, 3, 7, 30, 0, 0, time.UTC),
			Venue:        "Kapten I Wayan Dipta",
			Score:        match.NewScore(3, 1),
			Lineup: []match.LineupEntry{
				{PlayerID: "rjw-gk-01", Position: "GK"},
				{PlayerID: "rjw-def-01", Position: "CB"},
				{PlayerID: "rjw-mid-01", Position: "CM", IsCaptain: true},
				{PlayerID: "rjw-fwd-01", Position: "ST"},
			},
			Substitutes: []string{"rjw-mid-02"},
			Goals: []match.Goal{
				{ID: "goal-003", PlayerID: "rjw-fwd-01", Minute: 33, Type: match.GoalTypePenalty},
			},
			CompletedAt: completed(time.Date(2026, 8, 3, 9, 15, 0, 0, time.UTC)),
		},
	}
}

func SeedTrainings() []training.Training {
	session := func(id, teamID string, at time.Time, statuses map[string]training.AttendanceStatus) training.Training {
		item := training.Training{ID: id, TeamID: teamID, ScheduledAt: at}
		for playerID, status := range statuses {
			item.Attendance = append(item.Attendance, training.Attendance{PlayerID: playerID, Status: status})
		}
		return item
	}

	return []training.Training{
		session("trn-grd-001", TeamIDGarudaU17, time.Date(2026, 7, 29, 15, 0, 0, 0, time.UTC), map[string]training.AttendanceStatus{
			"grd-gk-01":  training.AttendancePresent,
			"grd-def-01": training.AttendancePresent,
			"grd-mid-01": training.AttendanceLate,
			"grd-fwd-01": training.AttendanceAbsent,
		}),
		session("trn-grd-002", TeamIDGarudaU17, time.Date(2026, 8, 5, 15, 0, 0, 0, time.UTC), map[string]training.AttendanceStatus{
			"grd-gk-01":  training.AttendancePresent,
			"grd-def-01": training.AttendanceExcused,
			"grd-mid-01": training.AttendancePresent,
			"grd-fwd-01": training.AttendancePresent,
		}),
		session("trn-rjw-001", TeamIDRajawaliU15, time.Date(2026, 8, 1, 14, 0, 0, 0, time.UTC), map[string]training.AttendanceStatus{
			"rjw-gk-01":  training.AttendancePresent,
			"rjw-fwd-01": training.AttendancePresent,
		}),
	}
}
