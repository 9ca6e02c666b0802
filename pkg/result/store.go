package result

import (
	"sort"
	"time"

	"github.com/qualab-dev/qualab/pkg/core"
	"github.com/qualab-dev/qualab/pkg/logger"
)

// Meta carries the optional descriptive fields of a record.
type Meta struct {
	TestCaseIDs []string
	FeatureName string
	Target      string
}

// Store holds one record per test method, grouped by class.
type Store struct {
	classes map[string]map[string]*Record
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{classes: make(map[string]map[string]*Record)}
}

// Register creates an untested record for class.method. Registering the
// same method twice keeps the original record.
func (s *Store) Register(class, method string, meta Meta) *Record {
	methods, ok := s.classes[class]
	if !ok {
		methods = make(map[string]*Record)
		s.classes[class] = methods
	}
	if existing, ok := methods[method]; ok {
		logger.Warn("record for %s.%s already registered, keeping the original", class, method)
		return existing
	}

	rec := &Record{
		Class:       class,
		Method:      method,
		Status:      core.StatusUntested,
		StartTime:   time.Now(),
		TestCaseIDs: meta.TestCaseIDs,
		FeatureName: meta.FeatureName,
		Target:      meta.Target,
	}
	methods[method] = rec
	return rec
}

// Get returns the record for class.method.
func (s *Store) Get(class, method string) (*Record, bool) {
	rec := s.lookup(class, method)
	return rec, rec != nil
}

func (s *Store) lookup(class, method string) *Record {
	if methods, ok := s.classes[class]; ok {
		return methods[method]
	}
	return nil
}

// FinishTiming stamps a record's end time at teardown without deciding
// the verdict. Reconciliation settles failed cases afterwards; the
// duration still reflects the actual test run.
func (s *Store) FinishTiming(class, method string) {
	rec := s.lookup(class, method)
	if rec == nil {
		logger.Warn("no record registered for %s.%s, timing ignored", class, method)
		return
	}
	rec.stampEnd()
}

// MarkPassed moves an untested record to passed. Terminal records are
// left alone so a late pass can never mask a recorded failure.
func (s *Store) MarkPassed(class, method string) {
	rec := s.lookup(class, method)
	if rec == nil {
		logger.Warn("no record registered for %s.%s, pass ignored", class, method)
		return
	}
	if rec.Status.IsTerminal() {
		logger.Warn("record %s.%s is already %s, pass ignored", class, method, rec.Status)
		return
	}
	rec.finish(core.StatusPassed, "")
}

// MarkFailed moves a record to failed with the runner's diagnostic. A
// pass recorded earlier is overwritten, loudly, because the runner's
// failure list is authoritative. A failure for an unregistered method
// gets a synthetic record rather than being dropped.
func (s *Store) MarkFailed(class, method, message string) *Record {
	rec := s.lookup(class, method)
	if rec == nil {
		logger.Warn("no record registered for %s.%s, recording synthetic failure", class, method)
		return s.AddSyntheticFailure(class, method, message)
	}

	switch rec.Status {
	case core.StatusPassed:
		logger.Warn("record %s.%s was passed but the runner reports a failure, overwriting", class, method)
	case core.StatusFailed:
		logger.Debug("record %s.%s already failed, updating diagnostic", class, method)
	}
	rec.finish(core.StatusFailed, message)
	return rec
}

// AddSyntheticFailure records a failed placeholder for an outcome that
// has no registered test.
func (s *Store) AddSyntheticFailure(class, method, message string) *Record {
	rec := s.Register(class, method, Meta{})
	rec.Synthetic = true
	rec.finish(core.StatusFailed, message)
	return rec
}

// Classes returns the class names in sorted order.
func (s *Store) Classes() []string {
	classes := make([]string, 0, len(s.classes))
	for class := range s.classes {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	return classes
}

// Methods returns a class's method names in sorted order.
func (s *Store) Methods(class string) []string {
	methods := make([]string, 0, len(s.classes[class]))
	for method := range s.classes[class] {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return methods
}

// Records returns every record ordered by class, then method.
func (s *Store) Records() []*Record {
	var records []*Record
	for _, class := range s.Classes() {
		for _, method := range s.Methods(class) {
			records = append(records, s.classes[class][method])
		}
	}
	return records
}

// Len returns the number of records in the store.
func (s *Store) Len() int {
	n := 0
	for _, methods := range s.classes {
		n += len(methods)
	}
	return n
}
