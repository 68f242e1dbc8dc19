package luaudoc

// fileState is the transient per-file state threaded through block
// processing.
type fileState struct {
	classes       []string
	currentClass  string
	withinDefault string
	withinRequire bool
}

func (f *fileState) declareClass(name string) {
	if name == "" {
		return
	}
	f.currentClass = name
	for _, c := range f.classes {
		if c == name {
			return
		}
	}
	f.classes = append(f.classes, name)
}

// applyOptions records @option values. A later option overrides an earlier
// one.
func (f *fileState) applyOptions(s *DocState) {
	if s.HasWithinDefault {
		f.withinDefault = s.WithinDefault
	}
	if s.HasWithinRequire {
		f.withinRequire = s.WithinRequire
	}
}

// ownerQuery is what a within resolver sees for one block.
type ownerQuery struct {
	record      *DocRecord
	binding     *Binding
	file        *fileState
	needsWithin bool
}

// withinResolver proposes an owner for a symbol. ok is false when the
// resolver has no opinion and the next one should be asked.
type withinResolver interface {
	resolve(q ownerQuery) (owner string, ok bool)
}

type withinResolverFunc func(q ownerQuery) (string, bool)

func (f withinResolverFunc) resolve(q ownerQuery) (string, bool) {
	return f(q)
}

// withinChain lists the resolvers in precedence order.
var withinChain = []withinResolver{
	withinResolverFunc(explicitWithin),
	withinResolverFunc(bindingWithin),
	withinResolverFunc(defaultWithin),
	withinResolverFunc(soleClassWithin),
}

func resolveWithin(q ownerQuery) string {
	for _, r := range withinChain {
		if owner, ok := r.resolve(q); ok {
			return owner
		}
	}
	return ""
}

// explicitWithin honours @within; "~" names the most recent @class.
func explicitWithin(q ownerQuery) (string, bool) {
	within := q.record.State.Within
	if within == currentClassMarker {
		within = q.file.currentClass
	}
	return within, within != ""
}

func bindingWithin(q ownerQuery) (string, bool) {
	if q.binding == nil || q.binding.Within == "" {
		return "", false
	}
	return q.binding.Within, true
}

func defaultWithin(q ownerQuery) (string, bool) {
	if !q.needsWithin || q.file.withinDefault == "" {
		return "", false
	}
	return q.file.withinDefault, true
}

// soleClassWithin picks the only class declared so far, unless the file
// requires explicit ownership.
func soleClassWithin(q ownerQuery) (string, bool) {
	if !q.needsWithin || q.file.withinRequire || len(q.file.classes) != 1 {
		return "", false
	}
	return q.file.classes[0], true
}
