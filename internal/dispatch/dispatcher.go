// Package dispatch decides which submit action fired a schema form POST and
// runs the matching mutation.
package dispatch

import (
	"context"
	"database/sql"
	"time"

	"github.com/Annany2002/nebula-schemas/internal/forms"
	"github.com/Annany2002/nebula-schemas/internal/logger"
	"github.com/Annany2002/nebula-schemas/internal/metrics"
)

var customLog = logger.NewLogger()

// Result is what the page renders after an action. A nil Schema and Detail
// mean "render the stored schema form for SchemaID" (a new draft when
// SchemaID is nil too).
type Result struct {
	SchemaID *int64
	Schema   *forms.SchemaForm
	Detail   *forms.DetailForm
}

// HasForm reports whether the handler produced a form to render as is.
func (r Result) HasForm() bool {
	return r.Schema != nil || r.Detail != nil
}

type handlerFunc func(ctx context.Context, target int64, p forms.Payload) (Result, error)

type route struct {
	action forms.ActionType
	handle handlerFunc
}

// Dispatcher maps submitted actions to handlers. It holds no request state.
type Dispatcher struct {
	db      *sql.DB
	metrics *metrics.Metrics
	routes  []route
}

// New builds the dispatcher. Routes are tried in this order for every
// payload key.
func New(db *sql.DB, m *metrics.Metrics) *Dispatcher {
	d := &Dispatcher{db: db, metrics: m}
	d.routes = []route{
		{forms.ActionAddColumn, d.addColumn},
		{forms.ActionDeleteColumn, d.deleteColumn},
		{forms.ActionEditColumn, d.editColumnDetails},
		{forms.ActionSubmitSchema, d.submitSchema},
		{forms.ActionSaveColumn, d.saveColumn},
	}
	return d
}

// match scans the payload keys in submission order and returns the first
// recognized action. Both the explicit action field and the prefixed button
// names are understood.
func (d *Dispatcher) match(p forms.Payload) (route, int64, bool) {
	for _, key := range p.Keys() {
		if key == forms.ActionField {
			typ, target, ok := forms.ParseActionValue(p.Get(key))
			if !ok {
				continue
			}
			for _, r := range d.routes {
				if r.action == typ {
					return r, target, true
				}
			}
			continue
		}
		for _, r := range d.routes {
			if target, ok := forms.ParseLegacyName(r.action, key); ok {
				return r, target, true
			}
		}
	}
	return route{}, 0, false
}

// Dispatch runs the action found in p. schemaID is the id from the request
// path, if any; it is returned untouched when no action matches.
func (d *Dispatcher) Dispatch(ctx context.Context, schemaID *int64, p forms.Payload) (Result, error) {
	r, target, ok := d.match(p)
	if !ok {
		d.observe("none", "ok", time.Now())
		return Result{SchemaID: schemaID}, nil
	}

	start := time.Now()
	customLog.Printf("Dispatch: Running %s for target %d", r.action, target)
	res, err := r.handle(ctx, target, p)
	switch {
	case err != nil:
		customLog.Warnf("Dispatch: %s for target %d failed: %v", r.action, target, err)
		d.observe(string(r.action), "error", start)
	case res.Schema != nil:
		d.observe(string(r.action), "invalid", start)
	default:
		d.observe(string(r.action), "ok", start)
	}
	return res, err
}

func (d *Dispatcher) observe(action, outcome string, start time.Time) {
	if d.metrics == nil {
		return
	}
	d.metrics.ObserveAction(action, outcome, time.Since(start).Seconds())
}
