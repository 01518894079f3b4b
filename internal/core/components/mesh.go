package components

import (
	"fmt"

	"github.com/zeusync/zengine/internal/core/ptree"
	"github.com/zeusync/zengine/internal/core/scene"
	"github.com/zeusync/zengine/internal/core/terminal"
)

const RenderableMeshType = "RenderableMesh"

// RenderableMesh names the mesh and material a renderer draws for the
// entity. Its object is "<entity>.mesh".
type RenderableMesh struct {
	scene.BaseComponent
	*terminal.Object

	Mesh     string
	Material string
	Visible  bool
}

func NewRenderableMesh(owner *scene.Entity) (*RenderableMesh, error) {
	if owner == nil {
		return nil, scene.ErrNilEntity
	}
	m := &RenderableMesh{
		BaseComponent: scene.NewBaseComponent(RenderableMeshType, "renderable mesh"),
		Object:        terminal.NewObject(owner.Terminal(), scene.ObjectNameFor(owner, "mesh")),
		Visible:       true,
	}
	m.RegisterAttribute("mesh", scene.StringAttribute(&m.Mesh))
	m.RegisterAttribute("material", scene.StringAttribute(&m.Material))
	m.RegisterAttribute("visible", scene.BoolAttribute(&m.Visible))
	m.RegisterCommand("show", func([]string) (string, error) { m.Visible = true; return "", nil })
	m.RegisterCommand("hide", func([]string) (string, error) { m.Visible = false; return "", nil })
	m.RegisterCommand("print", func([]string) (string, error) {
		return fmt.Sprintf("mesh=%q material=%q visible=%t", m.Mesh, m.Material, m.Visible), nil
	})
	if err := m.Attach(owner, m); err != nil {
		m.Object.Close()
		return nil, err
	}
	return m, nil
}

func (m *RenderableMesh) LoadFromTree(path string, tree *ptree.Tree) (err error) {
	m.Mesh = tree.GetString(scene.TreePath(path, "mesh"), m.Mesh)
	m.Material = tree.GetString(scene.TreePath(path, "material"), m.Material)
	m.Visible, err = tree.GetBool(scene.TreePath(path, "visible"), m.Visible)
	return err
}

func (m *RenderableMesh) SaveToTree(path string, tree *ptree.Tree) error {
	tree.Put(scene.TreePath(path, "mesh"), m.Mesh)
	tree.Put(scene.TreePath(path, "material"), m.Material)
	tree.PutBool(scene.TreePath(path, "visible"), m.Visible)
	return nil
}

func (m *RenderableMesh) Destroy() {
	m.Object.Close()
	m.BaseComponent.Destroy()
}
