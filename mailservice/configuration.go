// SPDX-License-Identifier: GPL-3.0-or-later
package mailservice

import (
	"fmt"
	"time"

	"github.com/CrawX/go-mailbridge/mailbox"
	"github.com/CrawX/go-mailbridge/pagination"

	"github.com/microcosm-cc/bluemonday"
)

type ConfigFunc func(c *configuration) error

func PageSize(size int) ConfigFunc {
	return func(c *configuration) error {
		if size <= 0 {
			return fmt.Errorf("PageSize must be positive, got %d", size)
		}
		c.PageSize = size
		return nil
	}
}

func FetchConcurrency(concurrency int) ConfigFunc {
	return func(c *configuration) error {
		if concurrency <= 0 {
			return fmt.Errorf("FetchConcurrency must be positive, got %d", concurrency)
		}
		c.FetchConcurrency = concurrency
		return nil
	}
}

func OperationTimeout(timeout time.Duration) ConfigFunc {
	return func(c *configuration) error {
		if timeout <= 0 {
			return fmt.Errorf("OperationTimeout must be positive")
		}
		c.OperationTimeout = timeout
		return nil
	}
}

func ArchiveTimeout(timeout time.Duration) ConfigFunc {
	return func(c *configuration) error {
		if timeout <= 0 {
			return fmt.Errorf("ArchiveTimeout must be positive")
		}
		c.ArchiveTimeout = timeout
		return nil
	}
}

// NoArchive skips storing sent mails in the Sent folder.
func NoArchive() ConfigFunc {
	return func(c *configuration) error {
		c.ArchiveSent = false
		return nil
	}
}

// SanitizeHTML strips scripts and other active content from fetched html bodies.
func SanitizeHTML() ConfigFunc {
	return func(c *configuration) error {
		c.Sanitizer = bluemonday.UGCPolicy()
		return nil
	}
}

func Location(location *time.Location) ConfigFunc {
	return func(c *configuration) error {
		if location == nil {
			return fmt.Errorf("Location cannot be null")
		}
		c.Location = location
		return nil
	}
}

func MailboxTable(table *mailbox.Table) ConfigFunc {
	return func(c *configuration) error {
		if table == nil {
			return fmt.Errorf("MailboxTable cannot be null")
		}
		c.Table = table
		return nil
	}
}

func WithMetrics(metrics Metrics) ConfigFunc {
	return func(c *configuration) error {
		if metrics == nil {
			return fmt.Errorf("Metrics cannot be null")
		}
		c.Metrics = metrics
		return nil
	}
}

type configuration struct {
	PageSize         int
	FetchConcurrency int

	OperationTimeout time.Duration
	ArchiveTimeout   time.Duration
	ArchiveSent      bool

	Sanitizer *bluemonday.Policy
	Location  *time.Location
	Table     *mailbox.Table
	Metrics   Metrics

	now func() time.Time
}

func defaultConfiguration() *configuration {
	return &configuration{
		PageSize:         pagination.DefaultLimit,
		FetchConcurrency: 4,
		OperationTimeout: 60 * time.Second,
		ArchiveTimeout:   30 * time.Second,
		ArchiveSent:      true,
		Location:         time.Local,
		Table:            mailbox.DefaultTable(),
		Metrics:          noMetrics{},
		now:              time.Now,
	}
}

type Metrics interface {
	ObserveOperation(operation string, kind string, took time.Duration)
	ArchiveFailed()
}

type noMetrics struct{}

func (noMetrics) ObserveOperation(string, string, time.Duration) {}

func (noMetrics) ArchiveFailed() {}
