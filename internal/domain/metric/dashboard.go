package metric

import (
	"github.com/samber/lo"
)

type ClientHighlight struct {
	ClientID    string
	Name        string
	Workouts    int
	Consistency float64
}

// Dashboard aggregates the metrics of every client linked to a trainer.
type Dashboard struct {
	TotalClients       int
	TotalWorkouts      int
	TotalTrainingHours float64
	AverageConsistency float64
	MostActive         *ClientHighlight
	MostConsistent     *ClientHighlight
}

// Summarize builds the dashboard totals. Client names are left empty, the
// caller resolves them.
func Summarize(all []*ClientMetrics) Dashboard {
	if len(all) == 0 {
		return Dashboard{}
	}

	totalHours := lo.SumBy(all, func(m *ClientMetrics) float64 { return m.TotalTrainingHours })
	totalConsistency := lo.SumBy(all, func(m *ClientMetrics) float64 { return m.ConsistencyPercentage })

	mostActive := lo.MaxBy(all, func(a, b *ClientMetrics) bool {
		return a.TotalWorkoutsCompleted > b.TotalWorkoutsCompleted
	})
	mostConsistent := lo.MaxBy(all, func(a, b *ClientMetrics) bool {
		return a.ConsistencyPercentage > b.ConsistencyPercentage
	})

	return Dashboard{
		TotalClients:       len(all),
		TotalWorkouts:      lo.SumBy(all, func(m *ClientMetrics) int { return m.TotalWorkoutsCompleted }),
		TotalTrainingHours: Round(totalHours, 2),
		AverageConsistency: Round(totalConsistency/float64(len(all)), 1),
		MostActive: &ClientHighlight{
			ClientID: mostActive.ClientID,
			Workouts: mostActive.TotalWorkoutsCompleted,
		},
		MostConsistent: &ClientHighlight{
			ClientID:    mostConsistent.ClientID,
			Consistency: Round(mostConsistent.ConsistencyPercentage, 1),
		},
	}
}
