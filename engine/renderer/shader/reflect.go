// Package shader reads the resource interface of a WGSL module (entry points, vertex
// inputs, bind group layouts and uniform struct sizes) so pipelines can be built from
// the shader source instead of hand-maintained descriptors.
package shader

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrMissingEntryPoint is returned when a module lacks a @vertex or @fragment function.
	ErrMissingEntryPoint = errors.New("shader entry point not found")
	// ErrUnsupportedType is returned for a vertex input or binding type that cannot be mapped.
	ErrUnsupportedType = errors.New("unsupported shader type")
)

var (
	structRegex    = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	locationRegex  = regexp.MustCompile(`@location\((\d+)\)`)
	builtinRegex   = regexp.MustCompile(`@builtin\(\w+\)`)
	fieldRegex     = regexp.MustCompile(`(\w+)\s*:\s*(.+)$`)
	functionRegex  = regexp.MustCompile(`(?:@(vertex|fragment|compute)\s+)?fn\s+(\w+)\s*\(`)
	bindingRegex   = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
	identCallRegex = regexp.MustCompile(`\b(\w+)\s*\(`)
)

// Binding is one @group/@binding resource declaration.
type Binding struct {
	Group uint32
	Name  string
	Type  string
	// Size is the byte size of a buffer binding's type, zero for textures and samplers.
	Size  uint64
	Entry wgpu.BindGroupLayoutEntry
}

// Reflection is the resource interface of one WGSL module.
type Reflection struct {
	VertexEntryPoint   string
	FragmentEntryPoint string
	// VertexInputs holds one layout per struct used as a vertex input.
	VertexInputs []wgpu.VertexBufferLayout
	// Bindings are sorted by group, then binding.
	Bindings []Binding

	structs map[string]typeLayout
}

// Reflect parses a WGSL module with one @vertex and one @fragment entry point.
// Binding visibility is the set of entry points whose call graph reads the variable;
// a binding no entry point reaches is visible to both stages.
//
// Parameters:
//   - source: the WGSL source
//
// Returns:
//   - *Reflection: the module's resource interface
//   - error: ErrMissingEntryPoint or ErrUnsupportedType, wrapped
func Reflect(source string) (*Reflection, error) {
	src := stripComments(source)
	structs := parseStructs(src)
	funcs := parseFunctions(src)

	r := &Reflection{structs: structLayouts(structs)}
	for _, f := range funcs {
		switch {
		case f.stage == wgpu.ShaderStageVertex && r.VertexEntryPoint == "":
			r.VertexEntryPoint = f.name
		case f.stage == wgpu.ShaderStageFragment && r.FragmentEntryPoint == "":
			r.FragmentEntryPoint = f.name
		}
	}
	if r.VertexEntryPoint == "" || r.FragmentEntryPoint == "" {
		return nil, fmt.Errorf("vertex %q, fragment %q: %w", r.VertexEntryPoint, r.FragmentEntryPoint, ErrMissingEntryPoint)
	}

	for _, s := range structs {
		if !isVertexInput(s) {
			continue
		}
		layout, err := vertexLayout(s)
		if err != nil {
			return nil, err
		}
		r.VertexInputs = append(r.VertexInputs, layout)
	}

	reach := reachableBodies(funcs)
	for _, m := range bindingRegex.FindAllStringSubmatch(src, -1) {
		group, _ := strconv.ParseUint(m[1], 10, 32)
		binding, _ := strconv.ParseUint(m[2], 10, 32)
		b := Binding{
			Group: uint32(group),
			Name:  m[4],
			Type:  strings.TrimSpace(m[5]),
		}
		b.Entry.Binding = uint32(binding)
		b.Entry.Visibility = visibility(b.Name, reach)
		if err := r.classify(&b, strings.TrimSpace(m[3])); err != nil {
			return nil, err
		}
		r.Bindings = append(r.Bindings, b)
	}
	sort.Slice(r.Bindings, func(i, j int) bool {
		if r.Bindings[i].Group != r.Bindings[j].Group {
			return r.Bindings[i].Group < r.Bindings[j].Group
		}
		return r.Bindings[i].Entry.Binding < r.Bindings[j].Entry.Binding
	})

	return r, nil
}

// GroupCount returns one past the highest group index in use.
func (r *Reflection) GroupCount() int {
	if len(r.Bindings) == 0 {
		return 0
	}
	return int(r.Bindings[len(r.Bindings)-1].Group) + 1
}

// GroupEntries returns the layout entries of one bind group, ordered by binding.
//
// Parameters:
//   - group: the @group index
//
// Returns:
//   - []wgpu.BindGroupLayoutEntry: the entries, empty for an unused group
func (r *Reflection) GroupEntries(group uint32) []wgpu.BindGroupLayoutEntry {
	var entries []wgpu.BindGroupLayoutEntry
	for _, b := range r.Bindings {
		if b.Group == group {
			entries = append(entries, b.Entry)
		}
	}
	return entries
}

// Binding looks up a resource by variable name.
func (r *Reflection) Binding(name string) (Binding, bool) {
	for _, b := range r.Bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

// StructSize returns the uniform-layout byte size of a struct declared in the module.
func (r *Reflection) StructSize(name string) (uint64, bool) {
	l, ok := r.structs[name]
	return l.size, ok
}

func (r *Reflection) classify(b *Binding, addressSpace string) error {
	switch {
	case addressSpace == "uniform":
		b.Entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case strings.HasPrefix(addressSpace, "storage"):
		b.Entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		if strings.Contains(addressSpace, "read_write") {
			b.Entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		}
	case b.Type == "sampler":
		b.Entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
		return nil
	case b.Type == "sampler_comparison":
		b.Entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
		return nil
	case strings.HasPrefix(b.Type, "texture_"):
		base, param, _ := strings.Cut(strings.TrimSuffix(b.Type, ">"), "<")
		dim, okDim := textureDimensions[base]
		st, okST := sampleTypes[strings.TrimSpace(param)]
		if !okDim || !okST {
			return fmt.Errorf("binding %s: %s: %w", b.Name, b.Type, ErrUnsupportedType)
		}
		b.Entry.Texture.ViewDimension = dim
		b.Entry.Texture.SampleType = st
		return nil
	default:
		return fmt.Errorf("binding %s: %s: %w", b.Name, b.Type, ErrUnsupportedType)
	}

	l, ok := resolveLayout(b.Type, r.structs)
	if !ok {
		return fmt.Errorf("binding %s: size of %s: %w", b.Name, b.Type, ErrUnsupportedType)
	}
	b.Size = l.size
	b.Entry.Buffer.MinBindingSize = l.size
	return nil
}

func parseStructs(src string) []structDecl {
	var out []structDecl
	for _, m := range structRegex.FindAllStringSubmatch(src, -1) {
		s := structDecl{name: m[1]}
		for _, part := range splitTopLevel(m[2]) {
			part = strings.TrimSpace(part)
			fm := fieldRegex.FindStringSubmatch(part)
			if fm == nil {
				continue
			}
			f := field{name: fm[1], typeName: strings.TrimSpace(fm[2]), location: -1, builtin: builtinRegex.MatchString(part)}
			if lm := locationRegex.FindStringSubmatch(part); lm != nil {
				f.location, _ = strconv.Atoi(lm[1])
			}
			s.fields = append(s.fields, f)
		}
		out = append(out, s)
	}
	return out
}

// parseFunctions returns every fn with its brace-delimited body.
func parseFunctions(src string) []function {
	var out []function
	for _, loc := range functionRegex.FindAllStringSubmatchIndex(src, -1) {
		f := function{name: src[loc[4]:loc[5]]}
		if loc[2] >= 0 {
			switch src[loc[2]:loc[3]] {
			case "vertex":
				f.stage = wgpu.ShaderStageVertex
			case "fragment":
				f.stage = wgpu.ShaderStageFragment
			case "compute":
				f.stage = wgpu.ShaderStageCompute
			}
		}
		open := strings.IndexByte(src[loc[1]:], '{')
		if open < 0 {
			continue
		}
		start := loc[1] + open
		depth := 0
		for i := start; i < len(src); i++ {
			switch src[i] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth == 0 {
				f.body = src[start : i+1]
				break
			}
		}
		out = append(out, f)
	}
	return out
}

// reachableBodies returns, per entry stage, the concatenated bodies of the entry point
// and every helper it calls directly or indirectly.
func reachableBodies(funcs []function) map[wgpu.ShaderStage]string {
	byName := make(map[string]function, len(funcs))
	for _, f := range funcs {
		byName[f.name] = f
	}

	out := make(map[wgpu.ShaderStage]string)
	for _, entry := range funcs {
		if entry.stage == 0 {
			continue
		}
		seen := map[string]bool{entry.name: true}
		queue := []function{entry}
		var sb strings.Builder
		for len(queue) > 0 {
			f := queue[0]
			queue = queue[1:]
			sb.WriteString(f.body)
			for _, call := range identCallRegex.FindAllStringSubmatch(f.body, -1) {
				if callee, ok := byName[call[1]]; ok && !seen[callee.name] {
					seen[callee.name] = true
					queue = append(queue, callee)
				}
			}
		}
		out[entry.stage] += sb.String()
	}
	return out
}

func visibility(name string, reach map[wgpu.ShaderStage]string) wgpu.ShaderStage {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	var stages wgpu.ShaderStage
	for stage, body := range reach {
		if re.MatchString(body) {
			stages |= stage
		}
	}
	if stages == 0 {
		stages = wgpu.ShaderStageVertex | wgpu.ShaderStageFragment
	}
	return stages
}

// isVertexInput reports whether a struct only carries @location fields, which
// distinguishes vertex inputs from inter-stage structs with @builtin(position).
func isVertexInput(s structDecl) bool {
	if len(s.fields) == 0 {
		return false
	}
	for _, f := range s.fields {
		if f.builtin || f.location < 0 {
			return false
		}
	}
	return true
}

// vertexLayout packs the struct's attributes tightly in declaration order.
func vertexLayout(s structDecl) (wgpu.VertexBufferLayout, error) {
	layout := wgpu.VertexBufferLayout{StepMode: wgpu.VertexStepModeVertex}
	for _, f := range s.fields {
		vf, ok := vertexFormats[f.typeName]
		if !ok {
			return layout, fmt.Errorf("%s.%s: %s: %w", s.name, f.name, f.typeName, ErrUnsupportedType)
		}
		layout.Attributes = append(layout.Attributes, wgpu.VertexAttribute{
			Format:         vf.format,
			Offset:         layout.ArrayStride,
			ShaderLocation: uint32(f.location),
		})
		layout.ArrayStride += vf.size
	}
	return layout, nil
}

// structLayouts resolves struct sizes, repeating until structs that embed
// other structs can be sized.
func structLayouts(structs []structDecl) map[string]typeLayout {
	known := make(map[string]typeLayout, len(structs))
	pending := structs
	for len(pending) > 0 {
		var next []structDecl
		for _, s := range pending {
			if l, ok := structLayout(s, known); ok {
				known[s.name] = l
			} else {
				next = append(next, s)
			}
		}
		if len(next) == len(pending) {
			break
		}
		pending = next
	}
	return known
}

func structLayout(s structDecl, known map[string]typeLayout) (typeLayout, bool) {
	var offset uint64
	align := uint64(1)
	for _, f := range s.fields {
		if f.builtin {
			continue
		}
		l, ok := resolveLayout(f.typeName, known)
		if !ok {
			return typeLayout{}, false
		}
		offset = roundUp(l.align, offset) + l.size
		align = max(align, l.align)
	}
	return typeLayout{roundUp(align, offset), align}, true
}

// resolveLayout sizes primitives, known structs and fixed-size arrays.
func resolveLayout(typeName string, known map[string]typeLayout) (typeLayout, bool) {
	if l, ok := primitiveLayouts[typeName]; ok {
		return l, true
	}
	if l, ok := known[typeName]; ok {
		return l, true
	}
	inner, ok := strings.CutPrefix(typeName, "array<")
	if !ok || !strings.HasSuffix(inner, ">") {
		return typeLayout{}, false
	}
	elem, count, ok := strings.Cut(strings.TrimSuffix(inner, ">"), ",")
	if !ok {
		return typeLayout{}, false
	}
	el, ok := resolveLayout(strings.TrimSpace(elem), known)
	if !ok {
		return typeLayout{}, false
	}
	n, err := strconv.ParseUint(strings.TrimSuffix(strings.TrimSpace(count), "u"), 10, 64)
	if err != nil {
		return typeLayout{}, false
	}
	// uniform arrays use a 16-byte element stride
	stride := roundUp(max(el.align, 16), el.size)
	return typeLayout{n * stride, max(el.align, 16)}, true
}

func roundUp(align, v uint64) uint64 {
	return (v + align - 1) / align * align
}

// splitTopLevel splits a struct body at commas outside angle brackets.
func splitTopLevel(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// stripComments removes line comments and (nested) block comments.
func stripComments(src string) string {
	var sb strings.Builder
	sb.Grow(len(src))
	depth := 0
	for i := 0; i < len(src); i++ {
		switch {
		case i+1 < len(src) && src[i] == '/' && src[i+1] == '*':
			depth++
			i++
		case i+1 < len(src) && src[i] == '*' && src[i+1] == '/' && depth > 0:
			depth--
			i++
		case depth > 0:
		case i+1 < len(src) && src[i] == '/' && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			sb.WriteByte('\n')
		default:
			sb.WriteByte(src[i])
		}
	}
	return sb.String()
}
