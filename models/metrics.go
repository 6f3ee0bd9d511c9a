package models

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"
)

// Operation names a repository call for metrics and logs.
type Operation string

const (
	OpFind    Operation = "find"
	OpList    Operation = "list"
	OpCount   Operation = "count"
	OpPersist Operation = "persist"
	OpMerge   Operation = "merge"
	OpDelete  Operation = "delete"
	OpRefresh Operation = "refresh"
)

var allOperations = []Operation{OpFind, OpList, OpCount, OpPersist, OpMerge, OpDelete, OpRefresh}

// OperationMetrics tracks the outcomes of one kind of repository call.
type OperationMetrics struct {
	Success  tally.Counter
	Fail     tally.Counter
	NotFound tally.Counter
	Invalid  tally.Counter
	Latency  tally.Timer
}

func newOperationMetrics(scope tally.Scope) *OperationMetrics {
	return &OperationMetrics{
		Success:  scope.Tagged(map[string]string{"result": "success"}).Counter("calls"),
		Fail:     scope.Tagged(map[string]string{"result": "fail"}).Counter("calls"),
		NotFound: scope.Tagged(map[string]string{"result": "not_found"}).Counter("calls"),
		Invalid:  scope.Tagged(map[string]string{"result": "invalid"}).Counter("calls"),
		Latency:  scope.Timer("latency"),
	}
}

// Recorder logs and counts the outcome of repository calls for one entity
// and persistence style.
type Recorder struct {
	fields     log.Fields
	operations map[Operation]*OperationMetrics
}

// NewRecorder returns a Recorder rooted at scope.<entity>, tagged with style.
func NewRecorder(scope tally.Scope, entity, style string) *Recorder {
	if scope == nil {
		scope = tally.NoopScope
	}
	entityScope := scope.SubScope(entity).Tagged(map[string]string{"style": style})

	ops := make(map[Operation]*OperationMetrics, len(allOperations))
	for _, op := range allOperations {
		ops[op] = newOperationMetrics(entityScope.SubScope(string(op)))
	}
	return &Recorder{
		fields:     log.Fields{"dao": entity, "style": style},
		operations: ops,
	}
}

// Observe records a finished call. Validation failures are logged at warn,
// persistence failures at error.
func (r *Recorder) Observe(op Operation, method string, start time.Time, err error) {
	m := r.operations[op]
	m.Latency.Record(time.Since(start))

	switch {
	case err == nil:
		m.Success.Inc(1)
	case IsInvalidArgument(err):
		m.Invalid.Inc(1)
		r.entry(method).WithError(err).Warn("rejected invalid input")
	case IsNotFound(err):
		m.NotFound.Inc(1)
		r.entry(method).WithError(err).Debug("no matching row")
	case IsAlreadyExists(err):
		m.Fail.Inc(1)
		r.entry(method).WithError(err).Warn("unique constraint violated")
	default:
		m.Fail.Inc(1)
		r.entry(method).WithError(err).Error("persistence call failed")
	}
}

func (r *Recorder) entry(method string) *log.Entry {
	return log.WithFields(r.fields).WithField("method", method)
}
