// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/oops"

	"github.com/pdiddy/doc2md/internal/automation"
	"github.com/pdiddy/doc2md/internal/retry"
	"github.com/pdiddy/doc2md/pkg/types"
)

// maxAttempts is one attempt plus one retry.
const maxAttempts = 2

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Failed    int

	// Restarts counts automation host re-launches during the run.
	Restarts int

	// Failures lists the documents that failed, in processing order.
	Failures []types.Document
}

// Total returns the total number of documents processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any document failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// ConvertBatch converts files on one shared automation host, writing each
// next to its source with a ".md" extension. A failure that looks like a
// transient host fault restarts the host and retries that file once; any
// other failure moves on to the next file. Every file is attempted. The
// returned error is non-nil only when the host cannot be started at all or
// ctx is cancelled.
func (c *Converter) ConvertBatch(ctx context.Context, launch automation.Launcher, files []string) (BatchResult, error) {
	var result BatchResult

	session, err := automation.NewSession(launch)
	if err != nil {
		return result, hostUnavailable(err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			c.log.Warnf("%v", cerr)
		}
	}()

	total := len(files)
	for i, src := range files {
		if err := ctx.Err(); err != nil {
			result.Restarts = session.Restarts()
			return result, err
		}

		c.log.Separator("-")
		c.log.Progressf("[%d/%d] processing: %s", i+1, total, src)

		doc := c.convertInSession(ctx, session, src)
		switch doc.Status {
		case types.ConversionConverted:
			result.Converted++
		default:
			result.Failed++
			result.Failures = append(result.Failures, doc)
			c.log.Errorf("giving up on %s: %v", src, doc.Err)
		}
	}

	result.Restarts = session.Restarts()
	c.log.Separator("=")
	c.log.Summary(result.Converted, result.Failed)
	c.log.FailureTable(result.Failures)
	return result, nil
}

// convertInSession runs the batch retry policy for one file.
func (c *Converter) convertInSession(ctx context.Context, session *automation.Session, src string) types.Document {
	doc := types.Document{Source: src, Output: DefaultOutputPath(src), Status: types.ConversionNone}

	// A previous restart failed; try to bring the host back before giving
	// up on this file.
	if session.App() == nil {
		if err := session.Restart(); err != nil {
			doc.Status = types.ConversionFailed
			doc.Err = hostUnavailable(err)
			return doc
		}
	}

	policy := retry.Policy{
		MaxAttempts: maxAttempts,
		Retryable:   automation.IsTransient,
		Delay:       c.opts.RestartDelay,
		OnFailure: func(attempt int, err error) {
			c.log.Errorf("conversion failed (attempt %d): %v", attempt, err)
		},
		BeforeRetry: func(int, error) error {
			c.log.Warnf("automation fault detected, restarting host and retrying %s", src)
			return session.Restart()
		},
	}

	attempts, err := policy.Do(ctx, func(context.Context, int) error {
		_, err := c.ConvertDocument(session.App(), doc.Source, doc.Output)
		return err
	})
	doc.Attempts = attempts
	if err != nil {
		doc.Status = types.ConversionFailed
		doc.Err = oops.
			Code("CONVERSION_FAILED").
			With("source", src).
			With("attempts", attempts).
			Wrap(err)
		return doc
	}
	doc.Status = types.ConversionConverted
	return doc
}

// ConvertSingle converts src to dst on a dedicated host that is started for
// the attempt and shut down afterwards. A failed attempt is retried once on
// a fresh host, except when the host cannot be started at all.
func (c *Converter) ConvertSingle(ctx context.Context, launch automation.Launcher, src, dst string) error {
	policy := retry.Policy{
		MaxAttempts: maxAttempts,
		Retryable: func(err error) bool {
			return !errors.Is(err, automation.ErrHostUnavailable)
		},
		OnFailure: func(attempt int, err error) {
			c.log.Errorf("conversion failed (attempt %d): %v", attempt, err)
		},
		BeforeRetry: func(int, error) error {
			c.log.Warnf("first attempt failed, retrying once")
			return nil
		},
	}

	_, err := policy.Do(ctx, func(context.Context, int) error {
		return c.convertWithFreshSession(launch, src, dst)
	})
	c.log.Result(src, err)
	if err != nil {
		return oops.
			Code("CONVERSION_FAILED").
			With("source", src).
			Wrap(err)
	}
	return nil
}

func (c *Converter) convertWithFreshSession(launch automation.Launcher, src, dst string) error {
	session, err := automation.NewSession(launch)
	if err != nil {
		return hostUnavailable(err)
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			c.log.Warnf("%v", cerr)
		}
	}()

	_, err = c.ConvertDocument(session.App(), src, dst)
	return err
}

// hostUnavailable marks a launch failure as a setup error.
func hostUnavailable(err error) error {
	if !errors.Is(err, automation.ErrHostUnavailable) {
		err = fmt.Errorf("%w: %w", automation.ErrHostUnavailable, err)
	}
	return oops.
		Code("HOST_UNAVAILABLE").
		Hint("Install Microsoft Word and make sure it can be automated by this user").
		Wrapf(err, "starting automation host")
}
