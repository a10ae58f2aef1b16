package routemap

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

// Extractor turns one controller descriptor into route records by reading
// path and method metadata off its members.
type Extractor struct {
	reader Reader
	log    *log.Logger
	stats  *Stats
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithExtractorTracer attaches a logger that receives a debug line for every
// member skipped due to a failed metadata read.
func WithExtractorTracer(logger *log.Logger) ExtractorOption {
	return func(e *Extractor) {
		e.log = logger
	}
}

// NewExtractor creates an extractor reading through the given Reader.
func NewExtractor(reader Reader, opts ...ExtractorOption) *Extractor {
	e := &Extractor{reader: reader}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the controller's routes in member declaration order. The
// full path of each record is Normalize(prefix, basePath, memberPath) where
// basePath is the controller's KeyPath metadata (empty when absent).
//
// Members without path or method metadata are ordinary methods and are
// passed over silently. A member whose metadata read fails is skipped and
// extraction continues with the next member. A nil or unnamed controller
// yields nil.
func (e *Extractor) Extract(ctrl *ControllerDescriptor, prefix string) []RouteRecord {
	if ctrl == nil || ctrl.Name == "" {
		return nil
	}

	basePath, err := e.basePath(ctrl)
	if err != nil {
		e.trace("controller skipped, base path unreadable", "controller", ctrl.Name, "error", err)
		return nil
	}

	var records []RouteRecord
	for _, member := range ctrl.Members {
		if member == nil {
			continue
		}
		record, ok := e.memberRoute(ctrl, member, prefix, basePath)
		if !ok {
			continue
		}
		records = append(records, record)
	}
	return records
}

// basePath reads the controller's base path. Absence means the controller
// mounts at the prefix root.
func (e *Extractor) basePath(ctrl *ControllerDescriptor) (string, error) {
	value, err := e.reader.Get(ctrl, KeyPath)
	if errors.Is(err, ErrAbsent) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return pathString(value), nil
}

// memberRoute builds the record for one member, reporting ok=false for
// non-route members and for members whose reads failed.
func (e *Extractor) memberRoute(ctrl *ControllerDescriptor, member *EndpointDescriptor, prefix, basePath string) (RouteRecord, bool) {
	pathValue, err := e.reader.Get(member, KeyPath)
	if errors.Is(err, ErrAbsent) {
		return RouteRecord{}, false
	}
	if err != nil {
		e.skipMember(ctrl, member, err)
		return RouteRecord{}, false
	}

	methodValue, err := e.reader.Get(member, KeyMethod)
	if errors.Is(err, ErrAbsent) {
		return RouteRecord{}, false
	}
	if err != nil {
		e.skipMember(ctrl, member, err)
		return RouteRecord{}, false
	}

	return RouteRecord{
		Method:  NormalizeVerb(methodValue),
		Path:    Normalize(prefix, basePath, pathString(pathValue)),
		Handler: ctrl.Name + "." + member.Name,
	}, true
}

func (e *Extractor) skipMember(ctrl *ControllerDescriptor, member *EndpointDescriptor, err error) {
	if e.stats != nil {
		e.stats.MembersSkipped++
	}
	e.trace("member skipped", "controller", ctrl.Name, "member", member.Name, "error", err)
}

func (e *Extractor) trace(msg string, keyvals ...any) {
	if e.log == nil {
		return
	}
	e.log.Debug(msg, keyvals...)
}

// pathString renders path metadata as a string. Loaders store strings, but a
// hand-built store may hold something else; print it rather than drop it.
func pathString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}
