package scene

// Names of the layers every scene starts with.
const (
	ToolLayerName  = "tool"
	GuideLayerName = "guide"
)

// Scene is an ordered stack of layers. Later layers paint on top.
type Scene struct {
	Background string

	layers []*Layer
	tool   *Layer
	guide  *Layer
}

// New creates a scene with a tool layer beneath a guide layer.
func New() *Scene {
	s := &Scene{
		tool:  NewLayer(ToolLayerName),
		guide: NewLayer(GuideLayerName),
	}
	s.layers = []*Layer{s.tool, s.guide}
	return s
}

// ToolLayer returns the layer tools draw into.
func (s *Scene) ToolLayer() *Layer { return s.tool }

// GuideLayer returns the layer for transient construction helpers.
func (s *Scene) GuideLayer() *Layer { return s.guide }

// Layers returns the layers in paint order.
func (s *Scene) Layers() []*Layer {
	out := make([]*Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

// Layer returns the layer with the given name, or nil.
func (s *Scene) Layer(name string) *Layer {
	for _, l := range s.layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// SetTransform applies the same transform to every layer.
func (s *Scene) SetTransform(t Transform) {
	for _, l := range s.layers {
		l.Transform = t
	}
}

// Clear empties every layer.
func (s *Scene) Clear() {
	for _, l := range s.layers {
		l.Clear()
	}
}

// ItemCount returns the number of visible leaf items across all layers.
func (s *Scene) ItemCount() int {
	n := 0
	for _, l := range s.layers {
		if !l.Visible {
			continue
		}
		l.Walk(func(*Item) { n++ })
	}
	return n
}
