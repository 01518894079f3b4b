package components

import (
	"errors"
	"fmt"

	"github.com/zeusync/zengine/internal/core/ptree"
	"github.com/zeusync/zengine/internal/core/scene"
	"github.com/zeusync/zengine/internal/core/terminal"
	"github.com/zeusync/zengine/pkg/math3d"
)

const LightType = "Light"

// LightKind is the shape of a light source.
type LightKind string

const (
	LightPoint       LightKind = "point"
	LightDirectional LightKind = "directional"
	LightSpot        LightKind = "spot"
)

var ErrInvalidLightKind = errors.New("invalid light kind")

// ParseLightKind validates s.
func ParseLightKind(s string) (LightKind, error) {
	switch k := LightKind(s); k {
	case LightPoint, LightDirectional, LightSpot:
		return k, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLightKind, s)
}

// Light is a light source. Its object is "<entity>.light".
type Light struct {
	scene.BaseComponent
	*terminal.Object

	Kind      LightKind
	Color     math3d.Vec3
	Intensity float32
}

func NewLight(owner *scene.Entity) (*Light, error) {
	if owner == nil {
		return nil, scene.ErrNilEntity
	}
	l := &Light{
		BaseComponent: scene.NewBaseComponent(LightType, "light source"),
		Object:        terminal.NewObject(owner.Terminal(), scene.ObjectNameFor(owner, "light")),
		Kind:          LightPoint,
		Color:         math3d.V3(1, 1, 1),
		Intensity:     1,
	}
	l.RegisterAttribute("kind", func(args []string) (string, error) {
		if len(args) == 0 {
			return "", terminal.ErrMissingArgument
		}
		k, err := ParseLightKind(args[0])
		if err != nil {
			return "", err
		}
		l.Kind = k
		return "", nil
	})
	l.RegisterAttribute("color", scene.Vec3Attribute(&l.Color))
	l.RegisterAttribute("intensity", scene.FloatAttribute(&l.Intensity))
	l.RegisterCommand("print", func([]string) (string, error) {
		return fmt.Sprintf("kind=%s color=%s intensity=%g", l.Kind, l.Color, l.Intensity), nil
	})
	if err := l.Attach(owner, l); err != nil {
		l.Object.Close()
		return nil, err
	}
	return l, nil
}

func (l *Light) LoadFromTree(path string, tree *ptree.Tree) (err error) {
	kind, err := ParseLightKind(tree.GetString(scene.TreePath(path, "kind"), string(l.Kind)))
	if err != nil {
		return err
	}
	l.Kind = kind
	if l.Color, err = tree.GetVec3(scene.TreePath(path, "color"), l.Color); err != nil {
		return err
	}
	l.Intensity, err = tree.GetFloat(scene.TreePath(path, "intensity"), l.Intensity)
	return err
}

func (l *Light) SaveToTree(path string, tree *ptree.Tree) error {
	tree.Put(scene.TreePath(path, "kind"), string(l.Kind))
	tree.PutVec3(scene.TreePath(path, "color"), l.Color)
	tree.PutFloat(scene.TreePath(path, "intensity"), l.Intensity)
	return nil
}

func (l *Light) Destroy() {
	l.Object.Close()
	l.BaseComponent.Destroy()
}
