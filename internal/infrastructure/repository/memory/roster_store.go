package memory

import (
	"sort"
	"sync"

	"github.com/riskibarqy/squad-stats/internal/domain/player"
	"github.com/riskibarqy/squad-stats/internal/domain/team"
)

// RosterStore holds teams and players behind one lock so a cache snapshot
// replaces a team row and its players together.
type RosterStore struct {
	mu      sync.RWMutex
	teams   map[string]team.Team
	players map[string]player.Player
}

func NewRosterStore(teams []team.Team, players []player.Player) *RosterStore {
	s := &RosterStore{
		teams:   make(map[string]team.Team, len(teams)),
		players: make(map[string]player.Player, len(players)),
	}
	for _, item := range teams {
		s.teams[item.ID] = item
	}
	for _, item := range players {
		s.players[item.ID] = item
	}
	return s
}

func (s *RosterStore) sortedTeamsLocked() []team.Team {
	out := make([]team.Team, 0, len(s.teams))
	for _, item := range s.teams {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *RosterStore) playersByTeamLocked(teamIDs map[string]struct{}) []player.Player {
	out := make([]player.Player, 0)
	for _, item := range s.players {
		if _, ok := teamIDs[item.TeamID]; ok {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TeamID != out[j].TeamID {
			return out[i].TeamID < out[j].TeamID
		}
		if out[i].JerseyNumber != out[j].JerseyNumber {
			return out[i].JerseyNumber < out[j].JerseyNumber
		}
		return out[i].ID < out[j].ID
	})
	return out
}
