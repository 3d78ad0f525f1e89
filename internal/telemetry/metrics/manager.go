package metrics

import (
	"github.com/burenotti/gym_tracker_backend/internal/domain"
	"github.com/burenotti/gym_tracker_backend/internal/domain/metric"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterWorkouts      prometheus.Counter
	CounterCardio        prometheus.Counter
	CounterWeightChanges prometheus.Counter
	CounterResets        prometheus.Counter
	CounterEvents        *prometheus.CounterVec

	// histograms
	HistWorkoutHours prometheus.Histogram
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("gym_tracker", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterWorkouts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "workouts_completed",
			Help:      "The total number of completed workout sessions",
		}),
		CounterCardio: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cardio_sessions",
			Help:      "The total number of logged cardio sessions",
		}),
		CounterWeightChanges: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "weight_changes",
			Help:      "The total number of recorded weight changes",
		}),
		CounterResets: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "workout_resets",
			Help:      "The total number of workout count resets",
		}),
		CounterEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "domain_events",
			Help:      "The total number of published domain events",
		}, []string{"type"}),
		HistWorkoutHours: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "workout_duration_hours",
			Help:      "Duration of completed workout sessions in hours",
			Buckets:   []float64{0.25, 0.5, 0.75, 1, 1.5, 2, 3, 4},
		}),
	}
}

// EventTypes lists the events HandleEvent understands.
var EventTypes = []string{
	metric.EventWorkoutRecorded,
	metric.EventCardioRecorded,
	metric.EventWeightRecorded,
	metric.EventWorkoutsReset,
}

// HandleEvent updates the counters for one committed domain event.
func (m *Manager) HandleEvent(e domain.Event) error {
	m.CounterEvents.WithLabelValues(e.Type()).Inc()

	switch ev := e.(type) {
	case metric.WorkoutRecordedEvent:
		m.CounterWorkouts.Inc()
		m.HistWorkoutHours.Observe(ev.Hours)
	case metric.CardioRecordedEvent:
		m.CounterCardio.Inc()
	case metric.WeightRecordedEvent:
		m.CounterWeightChanges.Inc()
	case metric.WorkoutsResetEvent:
		m.CounterResets.Inc()
	}
	return nil
}
