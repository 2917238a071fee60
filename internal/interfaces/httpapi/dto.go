package httpapi

import (
	"sort"
	"time"

	"github.com/riskibarqy/squad-stats/internal/domain/match"
	"github.com/riskibarqy/squad-stats/internal/domain/player"
	"github.com/riskibarqy/squad-stats/internal/domain/stats"
	"github.com/riskibarqy/squad-stats/internal/usecase"
)

type createMatchRequest struct {
	TeamID       string    `json:"team_id" validate:"required"`
	OpponentName string    `json:"opponent_name" validate:"required,max=120"`
	Competition  string    `json:"competition" validate:"omitempty,max=120"`
	IsHome       bool      `json:"is_home"`
	KickoffAt    time.Time `json:"kickoff_at" validate:"required"`
	Venue        string    `json:"venue" validate:"omitempty,max=200"`
}

type lineupEntryRequest struct {
	PlayerID     string  `json:"player_id" validate:"required"`
	Position     string  `json:"position" validate:"omitempty,max=20"`
	PositionX    float64 `json:"position_x" validate:"gte=0,lte=100"`
	PositionY    float64 `json:"position_y" validate:"gte=0,lte=100"`
	IsSubstitute bool    `json:"is_substitute"`
	IsCaptain    bool    `json:"is_captain"`
}

type setLineupRequest struct {
	Lineup      []lineupEntryRequest `json:"lineup" validate:"required,min=1,max=11,dive"`
	Substitutes []string             `json:"substitutes" validate:"omitempty,dive,required"`
	Formation   string               `json:"formation" validate:"omitempty,max=20"`
}

type recordGoalRequest struct {
	PlayerID       string `json:"player_id" validate:"required"`
	Minute         int    `json:"minute" validate:"gte=0,lte=130"`
	Type           string `json:"type" validate:"omitempty,oneof=open_play penalty free_kick header own_goal"`
	AssistPlayerID string `json:"assist_player_id" validate:"omitempty,nefield=PlayerID"`
}

type recordCardRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	Minute   int    `json:"minute" validate:"gte=0,lte=130"`
	Type     string `json:"type" validate:"required,oneof=yellow red second_yellow"`
	Reason   string `json:"reason" validate:"omitempty,max=200"`
}

type recordSubstitutionRequest struct {
	PlayerOutID string `json:"player_out_id" validate:"required"`
	PlayerInID  string `json:"player_in_id" validate:"required,nefield=PlayerOutID"`
	Minute      int    `json:"minute" validate:"gte=0,lte=130"`
	Reason      string `json:"reason" validate:"omitempty,max=40"`
}

type sideStatisticsPayload struct {
	Possession    int `json:"possession" validate:"gte=0,lte=100"`
	Shots         int `json:"shots" validate:"gte=0"`
	ShotsOnTarget int `json:"shots_on_target" validate:"gte=0"`
	Corners       int `json:"corners" validate:"gte=0"`
	Fouls         int `json:"fouls" validate:"gte=0"`
	Offsides      int `json:"offsides" validate:"gte=0"`
}

type statisticsPayload struct {
	Home sideStatisticsPayload `json:"home"`
	Away sideStatisticsPayload `json:"away"`
}

type playerRatingPayload struct {
	PlayerID string  `json:"player_id" validate:"required"`
	Rating   float64 `json:"rating" validate:"gte=1,lte=10"`
}

type completeMatchRequest struct {
	HomeScore     *int                  `json:"home_score" validate:"required,gte=0"`
	AwayScore     *int                  `json:"away_score" validate:"required,gte=0"`
	Statistics    statisticsPayload     `json:"statistics"`
	ManOfTheMatch string                `json:"man_of_the_match"`
	PlayerRatings []playerRatingPayload `json:"player_ratings" validate:"omitempty,dive"`
	CoachNotes    string                `json:"coach_notes" validate:"omitempty,max=2000"`
}

type reconcileJobRequest struct {
	TeamIDs    []string `json:"team_ids" validate:"omitempty,dive,required"`
	MaxWorkers int      `json:"max_workers" validate:"gte=0,lte=16"`
	DryRun     bool     `json:"dry_run"`
}

type lineupEntryDTO struct {
	PlayerID     string  `json:"player_id"`
	Position     string  `json:"position,omitempty"`
	PositionX    float64 `json:"position_x"`
	PositionY    float64 `json:"position_y"`
	IsSubstitute bool    `json:"is_substitute"`
	IsCaptain    bool    `json:"is_captain"`
}

type goalDTO struct {
	ID             string `json:"id"`
	PlayerID       string `json:"player_id"`
	Minute         int    `json:"minute"`
	Type           string `json:"type"`
	AssistPlayerID string `json:"assist_player_id,omitempty"`
}

type cardDTO struct {
	ID       string `json:"id"`
	PlayerID string `json:"player_id"`
	Minute   int    `json:"minute"`
	Type     string `json:"type"`
	Reason   string `json:"reason,omitempty"`
}

type substitutionDTO struct {
	ID          string `json:"id"`
	PlayerOutID string `json:"player_out_id"`
	PlayerInID  string `json:"player_in_id"`
	Minute      int    `json:"minute"`
	Reason      string `json:"reason"`
}

type scoreDTO struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type matchDTO struct {
	ID            string                `json:"id"`
	TeamID        string                `json:"team_id"`
	OpponentName  string                `json:"opponent_name"`
	Competition   string                `json:"competition"`
	IsHome        bool                  `json:"is_home"`
	Status        string                `json:"status"`
	KickoffAt     time.Time             `json:"kickoff_at"`
	Venue         string                `json:"venue,omitempty"`
	Formation     string                `json:"formation,omitempty"`
	Score         scoreDTO              `json:"score"`
	Lineup        []lineupEntryDTO      `json:"lineup"`
	Substitutes   []string              `json:"substitutes"`
	Goals         []goalDTO             `json:"goals"`
	Cards         []cardDTO             `json:"cards"`
	Substitutions []substitutionDTO     `json:"substitutions"`
	PlayerRatings []playerRatingPayload `json:"player_ratings"`
	Statistics    statisticsPayload     `json:"statistics"`
	ManOfTheMatch string                `json:"man_of_the_match,omitempty"`
	CoachNotes    string                `json:"coach_notes,omitempty"`
	CompletedAt   *time.Time            `json:"completed_at,omitempty"`
}

type playerAggregateDTO struct {
	PlayerID      string   `json:"player_id"`
	MatchesPlayed int      `json:"matches_played"`
	Goals         int      `json:"goals"`
	Assists       int      `json:"assists"`
	YellowCards   int      `json:"yellow_cards"`
	RedCards      int      `json:"red_cards"`
	MinutesPlayed int      `json:"minutes_played"`
	AverageRating *float64 `json:"average_rating"`
	SkippedEvents int      `json:"skipped_events"`
}

type teamAggregateDTO struct {
	TeamID         string `json:"team_id"`
	TotalMatches   int    `json:"total_matches"`
	Wins           int    `json:"wins"`
	Draws          int    `json:"draws"`
	Losses         int    `json:"losses"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
	CleanSheets    int    `json:"clean_sheets"`
	SkippedMatches int    `json:"skipped_matches,omitempty"`
}

type recentFormDTO struct {
	TeamID     string   `json:"team_id"`
	Form       []string `json:"form"`
	FormString string   `json:"form_string"`
}

type competitionRecordDTO struct {
	Competition string `json:"competition"`
	Played      int    `json:"played"`
	Wins        int    `json:"wins"`
	Draws       int    `json:"draws"`
	Losses      int    `json:"losses"`
}

type cachedPlayerStatisticsDTO struct {
	MatchesPlayed int `json:"matches_played"`
	Goals         int `json:"goals"`
	Assists       int `json:"assists"`
	YellowCards   int `json:"yellow_cards"`
	RedCards      int `json:"red_cards"`
	MinutesPlayed int `json:"minutes_played"`
}

type discrepancyDTO struct {
	Field   string `json:"field"`
	Cached  int    `json:"cached"`
	Derived int    `json:"derived"`
}

type playerConsistencyDTO struct {
	PlayerID      string                    `json:"player_id"`
	Consistent    bool                      `json:"consistent"`
	Cached        cachedPlayerStatisticsDTO `json:"cached"`
	Derived       playerAggregateDTO        `json:"derived"`
	Discrepancies []discrepancyDTO          `json:"discrepancies"`
}

type dashboardTeamDTO struct {
	TeamID    string           `json:"team_id"`
	Name      string           `json:"name"`
	Short     string           `json:"short,omitempty"`
	LogoURL   string           `json:"logo_url,omitempty"`
	Aggregate teamAggregateDTO `json:"aggregate"`
	Form      string           `json:"form"`
	NextMatch *matchDTO        `json:"next_match,omitempty"`
}

type topScorerDTO struct {
	PlayerID      string `json:"player_id"`
	TeamID        string `json:"team_id"`
	Name          string `json:"name"`
	PhotoURL      string `json:"photo_url,omitempty"`
	JerseyNumber  int    `json:"jersey_number"`
	Position      string `json:"position"`
	Goals         int    `json:"goals"`
	Assists       int    `json:"assists"`
	MatchesPlayed int    `json:"matches_played"`
}

type attendancePointDTO struct {
	TrainingID  string    `json:"training_id"`
	TeamID      string    `json:"team_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Rate        float64   `json:"rate"`
}

type dashboardDTO struct {
	Teams                []dashboardTeamDTO   `json:"teams"`
	TopScorers           []topScorerDTO       `json:"top_scorers"`
	PositionDistribution map[string]int       `json:"position_distribution"`
	AttendanceTrend      []attendancePointDTO `json:"attendance_trend"`
}

func (r setLineupRequest) toInput() usecase.SetLineupInput {
	lineup := make([]match.LineupEntry, 0, len(r.Lineup))
	for _, item := range r.Lineup {
		lineup = append(lineup, match.LineupEntry{
			PlayerID:     item.PlayerID,
			Position:     item.Position,
			PositionX:    item.PositionX,
			PositionY:    item.PositionY,
			IsSubstitute: item.IsSubstitute,
			IsCaptain:    item.IsCaptain,
		})
	}
	return usecase.SetLineupInput{
		Lineup:      lineup,
		Substitutes: r.Substitutes,
		Formation:   r.Formation,
	}
}

func (r completeMatchRequest) toInput() usecase.CompleteMatchInput {
	ratings := make([]match.PlayerRating, 0, len(r.PlayerRatings))
	for _, item := range r.PlayerRatings {
		ratings = append(ratings, match.PlayerRating{PlayerID: item.PlayerID, Rating: item.Rating})
	}
	return usecase.CompleteMatchInput{
		HomeScore:     *r.HomeScore,
		AwayScore:     *r.AwayScore,
		Statistics:    r.Statistics.toDomain(),
		ManOfTheMatch: r.ManOfTheMatch,
		PlayerRatings: ratings,
		CoachNotes:    r.CoachNotes,
	}
}

func (p statisticsPayload) toDomain() match.Statistics {
	side := func(s sideStatisticsPayload) match.SideStatistics {
		return match.SideStatistics{
			Possession:    s.Possession,
			Shots:         s.Shots,
			ShotsOnTarget: s.ShotsOnTarget,
			Corners:       s.Corners,
			Fouls:         s.Fouls,
			Offsides:      s.Offsides,
		}
	}
	return match.Statistics{Home: side(p.Home), Away: side(p.Away)}
}

func statisticsToPayload(item match.Statistics) statisticsPayload {
	side := func(s match.SideStatistics) sideStatisticsPayload {
		return sideStatisticsPayload{
			Possession:    s.Possession,
			Shots:         s.Shots,
			ShotsOnTarget: s.ShotsOnTarget,
			Corners:       s.Corners,
			Fouls:         s.Fouls,
			Offsides:      s.Offsides,
		}
	}
	return statisticsPayload{Home: side(item.Home), Away: side(item.Away)}
}

func matchToDTO(item match.Match) matchDTO {
	out := matchDTO{
		ID:            item.ID,
		TeamID:        item.TeamID,
		OpponentName:  item.OpponentName,
		Competition:   item.CompetitionLabel(),
		IsHome:        item.IsHome,
		Status:        string(item.Status),
		KickoffAt:     item.KickoffAt,
		Venue:         item.Venue,
		Formation:     item.Formation,
		Score:         scoreDTO{Home: item.Score.Home, Away: item.Score.Away},
		Lineup:        make([]lineupEntryDTO, 0, len(item.Lineup)),
		Substitutes:   append([]string{}, item.Substitutes...),
		Goals:         make([]goalDTO, 0, len(item.Goals)),
		Cards:         make([]cardDTO, 0, len(item.Cards)),
		Substitutions: make([]substitutionDTO, 0, len(item.Substitutions)),
		PlayerRatings: make([]playerRatingPayload, 0, len(item.PlayerRatings)),
		Statistics:    statisticsToPayload(item.Statistics),
		ManOfTheMatch: item.ManOfTheMatch,
		CoachNotes:    item.CoachNotes,
		CompletedAt:   item.CompletedAt,
	}
	for _, entry := range item.Lineup {
		out.Lineup = append(out.Lineup, lineupEntryDTO{
			PlayerID:     entry.PlayerID,
			Position:     entry.Position,
			PositionX:    entry.PositionX,
			PositionY:    entry.PositionY,
			IsSubstitute: entry.IsSubstitute,
			IsCaptain:    entry.IsCaptain,
		})
	}
	for _, goal := range item.Goals {
		out.Goals = append(out.Goals, goalToDTO(goal))
	}
	for _, card := range item.Cards {
		out.Cards = append(out.Cards, cardToDTO(card))
	}
	for _, sub := range item.Substitutions {
		out.Substitutions = append(out.Substitutions, substitutionToDTO(sub))
	}
	for _, rating := range item.PlayerRatings {
		out.PlayerRatings = append(out.PlayerRatings, playerRatingPayload{PlayerID: rating.PlayerID, Rating: rating.Rating})
	}
	return out
}

func goalToDTO(item match.Goal) goalDTO {
	return goalDTO{
		ID:             item.ID,
		PlayerID:       item.PlayerID,
		Minute:         item.Minute,
		Type:           string(item.Type),
		AssistPlayerID: item.AssistPlayerID,
	}
}

func cardToDTO(item match.Card) cardDTO {
	return cardDTO{
		ID:       item.ID,
		PlayerID: item.PlayerID,
		Minute:   item.Minute,
		Type:     string(item.Type),
		Reason:   item.Reason,
	}
}

func substitutionToDTO(item match.Substitution) substitutionDTO {
	return substitutionDTO{
		ID:          item.ID,
		PlayerOutID: item.PlayerOutID,
		PlayerInID:  item.PlayerInID,
		Minute:      item.Minute,
		Reason:      string(item.Reason),
	}
}

func playerAggregateToDTO(item stats.PlayerAggregate) playerAggregateDTO {
	return playerAggregateDTO{
		PlayerID:      item.PlayerID,
		MatchesPlayed: item.MatchesPlayed,
		Goals:         item.Goals,
		Assists:       item.Assists,
		YellowCards:   item.YellowCards,
		RedCards:      item.RedCards,
		MinutesPlayed: item.MinutesPlayed,
		AverageRating: item.AverageRating,
		SkippedEvents: item.SkippedEvents,
	}
}

func teamAggregateToDTO(item stats.TeamAggregate) teamAggregateDTO {
	return teamAggregateDTO{
		TeamID:         item.TeamID,
		TotalMatches:   item.TotalMatches,
		Wins:           item.Wins,
		Draws:          item.Draws,
		Losses:         item.Losses,
		GoalsFor:       item.GoalsFor,
		GoalsAgainst:   item.GoalsAgainst,
		GoalDifference: item.GoalDifference,
		Points:         item.Points,
		CleanSheets:    item.CleanSheets,
		SkippedMatches: item.SkippedMatches,
	}
}

func recentFormToDTO(teamID string, form []stats.Outcome) recentFormDTO {
	out := recentFormDTO{
		TeamID:     teamID,
		Form:       make([]string, 0, len(form)),
		FormString: stats.FormString(form),
	}
	for _, outcome := range form {
		out.Form = append(out.Form, string(outcome))
	}
	return out
}

func competitionBreakdownToDTO(items map[string]stats.CompetitionRecord) []competitionRecordDTO {
	out := make([]competitionRecordDTO, 0, len(items))
	for name, record := range items {
		out = append(out, competitionRecordDTO{
			Competition: name,
			Played:      record.Played,
			Wins:        record.Wins,
			Draws:       record.Draws,
			Losses:      record.Losses,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Competition < out[j].Competition })
	return out
}

func playerConsistencyToDTO(item usecase.PlayerConsistency) playerConsistencyDTO {
	out := playerConsistencyDTO{
		PlayerID:   item.PlayerID,
		Consistent: item.Consistent,
		Cached: cachedPlayerStatisticsDTO{
			MatchesPlayed: item.Cached.MatchesPlayed,
			Goals:         item.Cached.Goals,
			Assists:       item.Cached.Assists,
			YellowCards:   item.Cached.YellowCards,
			RedCards:      item.Cached.RedCards,
			MinutesPlayed: item.Cached.MinutesPlayed,
		},
		Derived:       playerAggregateToDTO(item.Derived),
		Discrepancies: make([]discrepancyDTO, 0, len(item.Discrepancies)),
	}
	for _, d := range item.Discrepancies {
		out.Discrepancies = append(out.Discrepancies, discrepancyDTO{Field: d.Field, Cached: d.Cached, Derived: d.Derived})
	}
	return out
}

func dashboardToDTO(item usecase.Dashboard) dashboardDTO {
	out := dashboardDTO{
		Teams:                make([]dashboardTeamDTO, 0, len(item.Teams)),
		TopScorers:           make([]topScorerDTO, 0, len(item.TopScorers)),
		PositionDistribution: make(map[string]int, len(item.PositionDistribution)),
		AttendanceTrend:      make([]attendancePointDTO, 0, len(item.AttendanceTrend)),
	}
	for _, summary := range item.Teams {
		teamDTO := dashboardTeamDTO{
			TeamID:    summary.TeamID,
			Name:      summary.Name,
			Short:     summary.Short,
			LogoURL:   summary.LogoURL,
			Aggregate: teamAggregateToDTO(summary.Aggregate),
			Form:      summary.Form,
		}
		if summary.NextMatch != nil {
			next := matchToDTO(*summary.NextMatch)
			teamDTO.NextMatch = &next
		}
		out.Teams = append(out.Teams, teamDTO)
	}
	for _, scorer := range item.TopScorers {
		out.TopScorers = append(out.TopScorers, topScorerDTO{
			PlayerID:      scorer.PlayerID,
			TeamID:        scorer.TeamID,
			Name:          scorer.Name,
			PhotoURL:      scorer.PhotoURL,
			JerseyNumber:  scorer.JerseyNumber,
			Position:      string(scorer.Position),
			Goals:         scorer.Goals,
			Assists:       scorer.Assists,
			MatchesPlayed: scorer.MatchesPlayed,
		})
	}
	for position := range player.AllPositions {
		out.PositionDistribution[string(position)] = item.PositionDistribution[position]
	}
	for _, point := range item.AttendanceTrend {
		out.AttendanceTrend = append(out.AttendanceTrend, attendancePointDTO{
			TrainingID:  point.TrainingID,
			TeamID:      point.TeamID,
			ScheduledAt: point.ScheduledAt,
			Rate:        point.Rate,
		})
	}
	return out
}
