package translate

import (
	"context"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/java2objc/java/parser"
)

// Outcome is what happened to one input file of a batch.
type Outcome struct {
	Path string
	// Type is the name of the translated type, empty on failure.
	Type   string
	Header string
	Impl   string
	Err    error
}

// Report lists the outcomes of a batch in input order.
type Report struct {
	Outcomes []Outcome
}

func (r *Report) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

func (r *Report) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			failed = append(failed, o)
		}
	}
	return failed
}

// Err aggregates the per-file errors.
func (r *Report) Err() error {
	var err error
	for _, o := range r.Outcomes {
		err = multierr.Append(err, o.Err)
	}
	return err
}

type unit struct {
	path   string
	cu     *parser.Node
	result *Result
	err    error
}

// Run translates a batch of files. Every path is validated before any work
// starts, and one bad extension fails the whole batch. After that, failures
// are isolated per file: the report carries every outcome and the returned
// error aggregates the failed ones.
func (t *Translator) Run(ctx context.Context, paths []string) (*Report, error) {
	if len(paths) == 0 {
		return nil, Wrap(ErrPrecondition, "no input files")
	}
	for _, path := range paths {
		if err := CheckPath(path); err != nil {
			return nil, err
		}
	}

	units := make([]*unit, len(paths))
	for i, path := range paths {
		units[i] = &unit{path: path}
	}

	if err := t.parallel(ctx, units, func(u *unit) {
		u.cu, u.err = t.parseFile(u.path)
	}); err != nil {
		return nil, err
	}

	for _, u := range units {
		if u.err == nil {
			t.registry.declareUnit(u.cu)
		}
	}

	if err := t.parallel(ctx, units, func(u *unit) {
		u.result, u.err = t.translateUnit(u.path, u.cu)
	}); err != nil {
		return nil, err
	}

	report := &Report{Outcomes: make([]Outcome, 0, len(units))}
	written := make(map[string]string)
	for _, u := range units {
		report.Outcomes = append(report.Outcomes, t.emit(u, written))
	}
	return report, report.Err()
}

// parallel runs fn over the units that have not failed, at most jobs at a
// time. Only cancellation of ctx is returned as an error.
func (t *Translator) parallel(ctx context.Context, units []*unit, fn func(*unit)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.jobs)
	for _, u := range units {
		if u.err != nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(u)
			return nil
		})
	}
	return g.Wait()
}

// emit writes one translated unit. written maps each type name emitted so
// far to the input that produced it, so a later duplicate can be reported.
func (t *Translator) emit(u *unit, written map[string]string) Outcome {
	outcome := Outcome{Path: u.path}
	if u.err != nil {
		outcome.Err = withPath(u.err, u.path)
		log.Errorf("%s", outcome.Err)
		return outcome
	}

	typ := u.result.Type
	if previous, ok := written[typ.Name()]; ok {
		log.Warningf("%s: type %s already emitted from %s, overwriting", u.path, typ.Name(), previous)
	}
	t.registry.Define(typ)
	if err := t.Write(u.result); err != nil {
		outcome.Err = withPath(err, u.path)
		log.Errorf("%s", outcome.Err)
		return outcome
	}
	written[typ.Name()] = u.path

	outcome.Type = typ.Name()
	outcome.Header, outcome.Impl = t.OutputFiles(typ)
	if len(u.result.Pending) > 0 {
		log.Debugf("%s: unresolved references: %s", u.path, strings.Join(u.result.Pending, ", "))
	}
	log.Infof("%s: wrote %s and %s", u.path, outcome.Header, outcome.Impl)
	return outcome
}

// withPath makes sure err names the input file it belongs to.
func withPath(err error, path string) error {
	if strings.Contains(err.Error(), path) {
		return err
	}
	return Wrapf(err, "%s", path)
}
