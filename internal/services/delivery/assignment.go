// Package delivery picks the delivery crew member to attach to a new order.
package delivery

import (
	"sort"

	"restaurant-api/internal/models"
)

// Strategy names an assignment policy.
type Strategy string

const (
	// StrategyPlacerCount builds its frequency table from who *placed*
	// each order, not who delivers it: the first delivery user who has
	// never placed an order wins, and when every delivery user has placed
	// one, it falls back to the least-frequent placer regardless of role.
	// Kept as the default for compatibility; see StrategyCrewLoad for the
	// per-courier load variant.
	StrategyPlacerCount Strategy = "placer_count"

	// StrategyCrewLoad counts current assignments per delivery user and
	// picks the least loaded one.
	StrategyCrewLoad Strategy = "crew_load"
)

// ParseStrategy maps a config value to a Strategy, defaulting to
// StrategyPlacerCount for empty or unknown values.
func ParseStrategy(s string) Strategy {
	if Strategy(s) == StrategyCrewLoad {
		return StrategyCrewLoad
	}
	return StrategyPlacerCount
}

// Select returns the id of the user to assign to a new order, or nil when
// no assignment can be made. crew holds the delivery-role users.
// Ties and "first" are pinned to ascending user id so the result is
// deterministic regardless of input order.
func Select(orders []models.Order, crew []models.User, strategy Strategy) *int64 {
	if strategy == StrategyCrewLoad {
		return selectByCrewLoad(orders, crew)
	}
	return selectByPlacerCount(orders, crew)
}

func selectByPlacerCount(orders []models.Order, crew []models.User) *int64 {
	if len(orders) == 0 {
		return nil
	}

	placed := make(map[int64]int, len(orders))
	for _, o := range orders {
		placed[o.UserID]++
	}

	for _, u := range sortedByID(crew) {
		if _, ok := placed[u.ID]; !ok {
			id := u.ID
			return &id
		}
	}

	// Every delivery user has placed an order: fall back to the least
	// frequent placer, whoever they are.
	var leastID int64
	leastCount := -1
	for id, count := range placed {
		if leastCount == -1 || count < leastCount || (count == leastCount && id < leastID) {
			leastID = id
			leastCount = count
		}
	}
	return &leastID
}

func selectByCrewLoad(orders []models.Order, crew []models.User) *int64 {
	if len(crew) == 0 {
		return nil
	}

	assigned := make(map[int64]int, len(orders))
	for _, o := range orders {
		if o.DeliveryCrewID != nil {
			assigned[*o.DeliveryCrewID]++
		}
	}

	var bestID int64
	bestLoad := -1
	for _, u := range sortedByID(crew) {
		if load := assigned[u.ID]; bestLoad == -1 || load < bestLoad {
			bestID = u.ID
			bestLoad = load
		}
	}
	return &bestID
}

func sortedByID(users []models.User) []models.User {
	out := make([]models.User, len(users))
	copy(out, users)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
