package pricing

// Selection is an unordered set of services. The zero value is empty and
// ready to use; methods never modify the receiver.
type Selection struct {
	set map[Service]bool
}

func Select(services ...Service) Selection {
	sel := Selection{}
	for _, svc := range services {
		sel = sel.With(svc)
	}
	return sel
}

func (s Selection) Has(svc Service) bool {
	return s.set[svc]
}

func (s Selection) With(svc Service) Selection {
	return s.toggle(svc, true)
}

func (s Selection) Without(svc Service) Selection {
	return s.toggle(svc, false)
}

func (s Selection) Empty() bool {
	return len(s.set) == 0
}

// Services returns the selected services in display order, so Rephrasing is
// always listed before Translation.
func (s Selection) Services() []Service {
	out := make([]Service, 0, len(s.set))
	for _, svc := range Services {
		if s.set[svc] {
			out = append(out, svc)
		}
	}
	return out
}

func (s Selection) toggle(svc Service, on bool) Selection {
	if !known(svc) {
		return s
	}
	next := make(map[Service]bool, len(s.set)+1)
	for k := range s.set {
		next[k] = true
	}
	if on {
		next[svc] = true
	} else {
		delete(next, svc)
	}
	return Selection{set: next}
}

func known(svc Service) bool {
	for _, k := range Services {
		if k == svc {
			return true
		}
	}
	return false
}
