package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	testsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ielts_tests_generated_total",
			Help: "Total number of test generation attempts",
		},
		[]string{"skill", "outcome"},
	)

	generationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ielts_generation_duration_seconds",
			Help:    "Time spent generating a test, AI call included",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"skill"},
	)

	audioSynthesisFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ielts_audio_synthesis_failures_total",
			Help: "Total number of failed audio syntheses for listening questions",
		},
	)

	sessionsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ielts_sessions_started_total",
			Help: "Total number of test sessions started",
		},
		[]string{"skill"},
	)

	submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ielts_submissions_total",
			Help: "Total number of test submissions",
		},
		[]string{"outcome"},
	)

	bandScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ielts_band_score",
			Help:    "Distribution of awarded band scores",
			Buckets: []float64{4.0, 4.5, 5.0, 5.5, 6.0, 6.5, 7.0, 7.5, 8.0, 8.5, 9.0},
		},
	)
)
