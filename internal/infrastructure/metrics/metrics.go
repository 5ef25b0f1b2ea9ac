package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the domain Prometheus collectors. They are threaded into
// the usecases and the outbox publisher; HTTP-level metrics live in the
// middleware package.
type Metrics struct {
	// Meeting metrics
	MeetingsProcessed *prometheus.CounterVec
	MeetingDuration   prometheus.Histogram
	MeetingIssues     *prometheus.CounterVec
	PostingsWritten   prometheus.Counter

	// Loan metrics
	LoansDisbursed   prometheus.Counter
	LoanRepayments   prometheus.Counter
	LoanPenalties    prometheus.Counter
	LoanAmount       prometheus.Histogram
	LoansOutstanding prometheus.Gauge

	// Share metrics
	SharePurchases prometheus.Counter
	SharesSold     prometheus.Counter

	// Social fund metrics
	SocialFundTransactions *prometheus.CounterVec
	SocialFundBalance      *prometheus.GaugeVec

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxErrors    prometheus.Counter

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all domain metrics.
func New() *Metrics {
	return &Metrics{
		// Meeting metrics
		MeetingsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vslaledger_meetings_processed_total",
				Help: "Total number of meetings processed by outcome",
			},
			[]string{"status"},
		),
		MeetingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vslaledger_meeting_duration_seconds",
			Help:    "Duration of meeting processing",
			Buckets: prometheus.DefBuckets,
		}),
		MeetingIssues: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vslaledger_meeting_issues_total",
				Help: "Total meeting validation issues by code",
			},
			[]string{"code", "severity"},
		),
		PostingsWritten: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vslaledger_postings_written_total",
			Help: "Total number of ledger postings written",
		}),

		// Loan metrics
		LoansDisbursed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vslaledger_loans_disbursed_total",
			Help: "Total number of loans disbursed",
		}),
		LoanRepayments: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vslaledger_loan_repayments_total",
			Help: "Total number of loan repayments recorded",
		}),
		LoanPenalties: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vslaledger_loan_penalties_total",
			Help: "Total number of loan penalties recorded",
		}),
		LoanAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vslaledger_loan_amount",
			Help:    "Disbursed loan principal amounts",
			Buckets: []float64{1000, 10000, 50000, 100000, 500000, 1000000, 5000000},
		}),
		LoansOutstanding: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "vslaledger_loans_outstanding",
			Help: "Current number of active loans",
		}),

		// Share metrics
		SharePurchases: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vslaledger_share_purchases_total",
			Help: "Total number of share purchases recorded",
		}),
		SharesSold: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vslaledger_shares_sold_total",
			Help: "Total number of shares sold",
		}),

		// Social fund metrics
		SocialFundTransactions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vslaledger_social_fund_transactions_total",
				Help: "Total social fund transactions by type",
			},
			[]string{"type"},
		),
		SocialFundBalance: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "vslaledger_social_fund_balance",
				Help: "Social fund balance per group and cycle",
			},
			[]string{"group_id", "cycle_id"},
		),

		// Outbox metrics
		OutboxPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vslaledger_outbox_published_total",
			Help: "Total outbox events published",
		}),
		OutboxErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vslaledger_outbox_errors_total",
			Help: "Total outbox publish errors",
		}),

		// Audit metrics
		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vslaledger_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
