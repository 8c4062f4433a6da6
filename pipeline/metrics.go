package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedRecordsFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "citebot_feed_records_fetched_total",
		Help: "The total number of citation records read from the feed",
	})

	newCitations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "citebot_new_citations_total",
		Help: "The total number of citation records selected as new by the differ",
	})

	announcementsPosted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "citebot_announcements_posted_total",
		Help: "The total number of announcements posted",
	})

	announcementsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "citebot_announcements_skipped_total",
		Help: "The total number of announcements skipped because they were already sent",
	})

	publishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "citebot_publish_errors_total",
		Help: "The total number of records that failed to publish",
	})
)
