package pipeline

import (
	"context"
	"fmt"

	"github.com/vuecraft-labs/vuecraft/internal/failure"
	"github.com/vuecraft-labs/vuecraft/internal/jobspec"
	"github.com/vuecraft-labs/vuecraft/internal/progress"
)

// Stream starts spec on a background goroutine and returns immediately.
// The job cannot be cancelled; its only output is the returned stream,
// which ends with exactly one completion event.
func (p *Pipeline) Stream(spec jobspec.Spec) *progress.Stream {
	s := progress.New()
	go p.work(s, spec)
	return s
}

func (p *Pipeline) work(s *progress.Stream, spec jobspec.Spec) {
	defer func() {
		if r := recover(); r != nil {
			err := failure.New(failure.WorkerFailed, spec.ProjectName,
				fmt.Sprintf("scaffold job %s crashed: %v", s.JobID(), r))
			if p.Logger != nil {
				p.Logger.Error("job crashed", "job_id", s.JobID(), "panic", r)
			}
			s.Complete(err)
		}
	}()

	_, err := p.Run(context.Background(), spec, ModeStreaming, s.JobID(), s)
	s.Complete(err)
}
