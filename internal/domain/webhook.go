package domain

import (
	"net/url"
	"time"
)

// JobName identifies one outbound integration point to the automation engine.
type JobName string

const (
	JobIngest   JobName = "ingest"
	JobCluster  JobName = "cluster"
	JobGenerate JobName = "generate"
	JobFormat   JobName = "format"
	JobPublish  JobName = "publish"
)

// KnownJobs lists every dispatchable job in registry order.
var KnownJobs = []JobName{JobIngest, JobCluster, JobGenerate, JobFormat, JobPublish}

func (j JobName) Known() bool {
	switch j {
	case JobIngest, JobCluster, JobGenerate, JobFormat, JobPublish:
		return true
	}
	return false
}

// WebhookConfig maps a logical job name to its target URL.
type WebhookConfig struct {
	Name      JobName
	URL       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate enforces the registry invariants: a known job name and a
// well-formed absolute http(s) URL.
func (c *WebhookConfig) Validate() error {
	if c.Name == "" || c.URL == "" {
		return NewValidationError("webhook name and url are required")
	}
	if !c.Name.Known() {
		return NewValidationError("unknown webhook job %q", c.Name)
	}
	u, err := url.Parse(c.URL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return NewValidationError("webhook url %q is not an absolute URL", c.URL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return NewValidationError("webhook url %q must use http or https", c.URL)
	}
	return nil
}
