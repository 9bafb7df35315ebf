package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RecommendDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "skin_guru_recommend_latency_seconds",
		Help:    "Latency of the recommendation rules including catalog load",
		Buckets: prometheus.DefBuckets,
	})

	RecommendTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "skin_guru_recommend_total",
		Help: "Recommendations served by primary condition",
	}, []string{"condition"})

	CatalogFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "skin_guru_catalog_failures_total",
		Help: "Recommendations served without a catalog because it could not be loaded",
	})

	LeadsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "skin_guru_leads_created_total",
		Help: "Leads stored by source",
	}, []string{"source"})

	LeadPersistFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "skin_guru_lead_persist_failures_total",
		Help: "Leads that could not be stored while serving results",
	})

	AnalysisFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "skin_guru_analysis_fallback_total",
		Help: "Skin analyses answered with the fallback scores",
	})

	ChatFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "skin_guru_chat_failures_total",
		Help: "Chat replies answered with the fallback text, by advisor",
	}, []string{"kind"})

	EmailsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "skin_guru_lead_emails_total",
		Help: "Lead summary emails by outcome",
	}, []string{"outcome"})
)

func Init() {
	prometheus.MustRegister(
		RecommendDuration,
		RecommendTotal,
		CatalogFailures,
		LeadsCreated,
		LeadPersistFailures,
		AnalysisFallbacks,
		ChatFailures,
		EmailsSent,
	)
}
