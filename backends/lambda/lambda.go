// Package lambda runs the engine behind a DynamoDB stream trigger. Each
// invocation is one batch; batch level errors are returned to the runtime so
// the trigger's retry and redrive policy applies.
package lambda

import (
	"context"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/batchcorp/searchsync/backends"
	"github.com/batchcorp/searchsync/stats"
	"github.com/batchcorp/searchsync/types"
)

const BackendName = "lambda"

var (
	ErrMissingHandler = errors.New("handler cannot be nil")
	ErrNilEvent       = errors.New("stream event cannot be nil")
)

type Lambda struct {
	handler backends.Handler
	log     *logrus.Entry
}

func New(h backends.Handler) (*Lambda, error) {
	if h == nil {
		return nil, ErrMissingHandler
	}

	return &Lambda{
		handler: h,
		log:     logrus.WithField("backend", BackendName),
	}, nil
}

func (l *Lambda) Name() string {
	return BackendName
}

// Handle processes a single invocation
func (l *Lambda) Handle(ctx context.Context, event *types.StreamEvent) (*types.SyncMetrics, error) {
	if event == nil {
		return nil, ErrNilEvent
	}

	l.log.Debugf("invocation received with %d records", len(event.Records))

	stats.Incr("lambda-invocations", 1)

	sm, err := l.handler.HandleBatch(ctx, event.Records)
	if err != nil {
		l.log.WithField("records", len(event.Records)).Errorf("batch failed: %s", err)
		return nil, errors.Wrap(err, "unable to handle stream event")
	}

	return sm, nil
}

// Start hands control to the Lambda runtime; it does not return
func (l *Lambda) Start() {
	l.log.Info("starting lambda handler")

	awslambda.Start(l.Handle)
}
