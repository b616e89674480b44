package usecase

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// StageResolution is the stage chosen for a new opportunity. Fallback is set
// when no stage name matched and the pipeline's entry stage was used instead.
type StageResolution struct {
	PipelineID string
	StageID    string
	StageName  string
	Fallback   bool
}

type StageResolver struct {
	pipelines PipelineLister
	log       *zap.Logger
}

func NewStageResolver(pipelines PipelineLister, log *zap.Logger) *StageResolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &StageResolver{pipelines: pipelines, log: log}
}

// Resolve fetches the tenant's pipelines on every call and picks the first
// stage whose name contains desired, ignoring case. Without a match the first
// listed stage is used.
func (r *StageResolver) Resolve(ctx context.Context, pipelineID, desired string) (StageResolution, error) {
	pipelines, err := r.pipelines.ListPipelines(ctx)
	if err != nil {
		return StageResolution{}, eris.Wrap(err, "list pipelines")
	}

	for _, p := range pipelines {
		if p.ID != pipelineID {
			continue
		}
		if len(p.Stages) == 0 {
			return StageResolution{}, eris.Wrapf(ErrStageNotFound, "pipeline %s", pipelineID)
		}

		want := strings.ToLower(desired)
		for _, st := range p.Stages {
			if strings.Contains(strings.ToLower(st.Name), want) {
				return StageResolution{PipelineID: p.ID, StageID: st.ID, StageName: st.Name}, nil
			}
		}

		entry := p.Stages[0]
		r.log.Info("stage name not matched, using entry stage",
			zap.String("pipeline_id", p.ID),
			zap.String("desired_stage", desired),
			zap.String("stage", entry.Name),
		)
		return StageResolution{PipelineID: p.ID, StageID: entry.ID, StageName: entry.Name, Fallback: true}, nil
	}

	return StageResolution{}, eris.Wrapf(ErrPipelineNotFound, "pipeline %s", pipelineID)
}
