package design

import (
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/pkg/errors"

	"verilab/internal/diag"
	"verilab/internal/source"
	"verilab/internal/symbols"
	"verilab/internal/vnum"
)

type builder struct {
	path string
	tb   *symbols.Table
}

func build(path string, fd *fileDesign) (*Design, error) {
	b := &builder{path: path, tb: symbols.NewTable()}
	if fd.Options.IntegerWidth < 0 {
		return nil, newError(diag.DsnInvalid, path, "integer_width must be positive, got %d", fd.Options.IntegerWidth)
	}
	for i := range fd.Scopes {
		if err := b.scope(b.tb.Root(), &fd.Scopes[i]); err != nil {
			return nil, err
		}
	}
	d := &Design{Path: path, Table: b.tb, Exprs: make([]Expr, 0, len(fd.Exprs))}
	seen := make(map[string]bool, len(fd.Exprs))
	for i, fe := range fd.Exprs {
		name := fe.Name
		if name == "" {
			name = "expr" + strconv.Itoa(i+1)
		}
		if seen[name] {
			return nil, newError(diag.DsnDuplicateName, path, "expression %q declared twice", name)
		}
		seen[name] = true
		if strings.TrimSpace(fe.Text) == "" {
			return nil, newError(diag.DsnInvalid, path, "expression %q has no text", name)
		}
		scope, ok := ResolveScope(b.tb, fe.Scope)
		if !ok {
			return nil, newError(diag.DsnUnknownScope, path, "expression %q: no scope %q", name, fe.Scope)
		}
		d.Exprs = append(d.Exprs, Expr{
			Index:      i,
			Name:       name,
			Scope:      scope,
			ScopePath:  b.tb.ScopeName(scope),
			Text:       fe.Text,
			Width:      fe.Width,
			SysTaskArg: fe.SysArg,
		})
	}
	return d, nil
}

// wrap turns a symbol table error into a description error.
func (b *builder) wrap(err error, what string) error {
	if errors.Is(err, symbols.ErrDuplicate) {
		return newError(diag.DsnDuplicateName, b.path, "%s: %v", what, err)
	}
	return newError(diag.DsnInvalid, b.path, "%s: %v", what, err)
}

func (b *builder) scope(parent symbols.ScopeID, fs *fileScope) error {
	if fs.Name == "" {
		return newError(diag.DsnInvalid, b.path, "scope without a name in %s", b.tb.ScopeName(parent))
	}
	kind := symbols.ScopeModule
	if fs.Kind != "" {
		k, ok := symbols.ParseScopeKind(fs.Kind)
		if !ok || k == symbols.ScopeRoot {
			return newError(diag.DsnInvalid, b.path, "scope %q: unknown kind %q", fs.Name, fs.Kind)
		}
		kind = k
	}
	id, err := b.tb.AddScope(parent, kind, fs.Name, source.Span{})
	if err != nil {
		return b.wrap(err, "scope "+fs.Name)
	}
	where := b.tb.ScopeName(id)

	for i := range fs.Signals {
		sig, err := b.signal(where, &fs.Signals[i])
		if err != nil {
			return err
		}
		if err := b.tb.AddSignal(id, sig); err != nil {
			return b.wrap(err, where)
		}
	}
	for _, fp := range fs.Params {
		p, err := b.param(where, fp)
		if err != nil {
			return err
		}
		if err := b.tb.AddParam(id, p); err != nil {
			return b.wrap(err, where)
		}
	}
	for _, name := range fs.Events {
		if err := b.tb.AddEvent(id, &symbols.Event{Name: name}); err != nil {
			return b.wrap(err, where)
		}
	}
	if fs.Genvar != nil {
		if kind != symbols.ScopeGenerate {
			return newError(diag.DsnInvalid, b.path, "%s: genvar outside a generate scope", where)
		}
		if err := b.tb.SetGenvar(id, symbols.Genvar{Name: fs.Genvar.Name, Value: fs.Genvar.Value}); err != nil {
			return b.wrap(err, where)
		}
	}
	for _, fsp := range fs.Specparams {
		sp, err := specparam(fsp)
		if err != nil {
			return newError(diag.DsnBadParamValue, b.path, "%s: specparam %q: %v", where, fsp.Name, err)
		}
		if err := b.tb.AddSpecparam(id, sp); err != nil {
			return b.wrap(err, where)
		}
	}
	for i := range fs.Functions {
		if err := b.function(id, where, &fs.Functions[i]); err != nil {
			return err
		}
	}
	for i := range fs.Scopes {
		if err := b.scope(id, &fs.Scopes[i]); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) signal(where string, fs *fileSignal) (*symbols.Signal, error) {
	dom, ok := vnum.ParseDomain(fs.Domain)
	if !ok {
		return nil, newError(diag.DsnUnknownDomain, b.path, "%s: signal %q: unknown domain %q", where, fs.Name, fs.Domain)
	}
	sig := &symbols.Signal{Name: fs.Name, Signed: fs.Signed, Domain: dom}
	if fs.Range != nil {
		r, err := pair(fs.Range)
		if err != nil {
			return nil, newError(diag.DsnInvalid, b.path, "%s: signal %q: range %v", where, fs.Name, err)
		}
		sig.Range = r
	}
	if fs.Array != nil {
		r, err := pair(fs.Array)
		if err != nil {
			return nil, newError(diag.DsnInvalid, b.path, "%s: signal %q: array %v", where, fs.Name, err)
		}
		sig.Array = &r
	}
	return sig, nil
}

func pair(v []int64) (symbols.Range, error) {
	if len(v) != 2 {
		return symbols.Range{}, errors.Errorf("needs [msb, lsb], got %d values", len(v))
	}
	return symbols.Range{Msb: v[0], Lsb: v[1]}, nil
}

func (b *builder) param(where string, fp fileParam) (*symbols.Param, error) {
	p := &symbols.Param{Name: fp.Name}
	if err := paramValue(p, fp.Value); err != nil {
		return nil, newError(diag.DsnBadParamValue, b.path, "%s: param %q: %v", where, fp.Name, err)
	}
	if fp.Range != nil {
		r, err := pair(fp.Range)
		if err != nil {
			return nil, newError(diag.DsnInvalid, b.path, "%s: param %q: range %v", where, fp.Name, err)
		}
		if !p.IsReal && r.Width() != int64(p.Value.Len()) {
			w, err := safecast.Conv[int](r.Width())
			if err != nil {
				return nil, newError(diag.DsnInvalid, b.path, "%s: param %q: range too wide", where, fp.Name)
			}
			p.Value = p.Value.Resize(w)
		}
		p.Range = &r
	}
	return p, nil
}

// paramValue parses a Verilog literal, a quoted string, or a real.
func paramValue(p *symbols.Param, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.New("empty value")
	}
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		s, err := strconv.Unquote(text)
		if err != nil {
			return errors.Wrap(err, "string value")
		}
		p.Value = vnum.String(s)
		return nil
	}
	if neg, ok := strings.CutPrefix(text, "-"); ok && !strings.ContainsAny(neg, "'.eE") {
		n, err := strconv.ParseInt(neg, 10, 64)
		if err != nil {
			return errors.Wrap(err, "integer value")
		}
		p.Value = vnum.Int(-n, vnum.IntegerWidth)
		return nil
	}
	v, err := vnum.Parse(text)
	if err == nil {
		p.Value = v
		return nil
	}
	if !strings.Contains(text, "'") {
		if f, ferr := strconv.ParseFloat(text, 64); ferr == nil {
			p.Real, p.IsReal = f, true
			return nil
		}
	}
	return err
}

func specparam(fsp fileSpecparam) (*symbols.Specparam, error) {
	text := strings.TrimSpace(fsp.Value)
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return &symbols.Specparam{Name: fsp.Name, Int: n}, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, errors.Errorf("%q is neither an integer nor a real", fsp.Value)
	}
	return &symbols.Specparam{Name: fsp.Name, IsReal: true, Real: f}, nil
}

func (b *builder) function(scope symbols.ScopeID, where string, ff *fileFunction) error {
	var ret *symbols.Signal
	if ff.Return != nil {
		r := *ff.Return
		r.Name = ff.Name
		sig, err := b.signal(where, &r)
		if err != nil {
			return err
		}
		ret = sig
	}
	ports := make([]*symbols.Signal, 0, len(ff.Ports))
	for i := range ff.Ports {
		sig, err := b.signal(where+"."+ff.Name, &ff.Ports[i])
		if err != nil {
			return err
		}
		ports = append(ports, sig)
	}
	if _, err := b.tb.AddFunction(scope, ff.Name, ret, ports, source.Span{}); err != nil {
		return b.wrap(err, where)
	}
	return nil
}
