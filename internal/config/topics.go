package config

const (
	// TopicJobsSync is the NSQ topic carrying raw posting batches pulled
	// from the upstream job feed.
	TopicJobsSync = "jobs.sync"
)
