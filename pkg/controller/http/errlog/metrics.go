package errlog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m-mizutani/errlog/pkg/domain/model/failure"
	"github.com/m-mizutani/goerr/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts normalized error responses by status and method.
type Metrics struct {
	responses *prometheus.CounterVec
}

// NewMetrics registers the counters on reg. Registering twice on the same
// registry reuses the existing collector.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	responses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "errlog",
		Name:      "responses_total",
		Help:      "Number of error responses by normalized status and request method.",
	}, []string{"status", "method"})

	if err := reg.Register(responses); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, goerr.Wrap(err, "failed to register error response counter")
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, goerr.Wrap(err, "conflicting collector registered for error responses")
		}
		responses = existing
	}

	return &Metrics{responses: responses}, nil
}

// knownMethods bounds the method label; any other token counts as OTHER.
var knownMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodConnect: {},
	http.MethodOptions: {},
	http.MethodTrace:   {},
}

const otherMethod = "OTHER"

func methodLabel(method string) string {
	if _, ok := knownMethods[method]; ok {
		return method
	}
	return otherMethod
}

func (x *Metrics) observe(req failure.Request, resp failure.Response) {
	if x == nil {
		return
	}
	x.responses.WithLabelValues(strconv.Itoa(resp.Status), methodLabel(req.Method)).Inc()
}

// Counter returns the underlying counter vector.
func (x *Metrics) Counter() *prometheus.CounterVec {
	return x.responses
}
