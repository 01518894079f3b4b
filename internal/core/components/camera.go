// Package components holds the scene components that only carry state for
// external renderers: cameras, lights and meshes.
package components

import (
	"fmt"

	"github.com/zeusync/zengine/internal/core/ptree"
	"github.com/zeusync/zengine/internal/core/scene"
	"github.com/zeusync/zengine/internal/core/terminal"
)

const CameraType = "Camera"

// Camera is a perspective camera. Its object is "<entity>.camera".
type Camera struct {
	scene.BaseComponent
	*terminal.Object

	FOV  float32
	Near float32
	Far  float32
}

func NewCamera(owner *scene.Entity) (*Camera, error) {
	if owner == nil {
		return nil, scene.ErrNilEntity
	}
	c := &Camera{
		BaseComponent: scene.NewBaseComponent(CameraType, "perspective camera"),
		Object:        terminal.NewObject(owner.Terminal(), scene.ObjectNameFor(owner, "camera")),
		FOV:           60,
		Near:          0.1,
		Far:           1000,
	}
	c.RegisterAttribute("fov", scene.FloatAttribute(&c.FOV))
	c.RegisterAttribute("near", scene.FloatAttribute(&c.Near))
	c.RegisterAttribute("far", scene.FloatAttribute(&c.Far))
	c.RegisterCommand("print", func([]string) (string, error) {
		return fmt.Sprintf("fov=%g near=%g far=%g", c.FOV, c.Near, c.Far), nil
	})
	if err := c.Attach(owner, c); err != nil {
		c.Object.Close()
		return nil, err
	}
	return c, nil
}

func (c *Camera) LoadFromTree(path string, tree *ptree.Tree) (err error) {
	if c.FOV, err = tree.GetFloat(scene.TreePath(path, "fov"), c.FOV); err != nil {
		return err
	}
	if c.Near, err = tree.GetFloat(scene.TreePath(path, "near"), c.Near); err != nil {
		return err
	}
	c.Far, err = tree.GetFloat(scene.TreePath(path, "far"), c.Far)
	return err
}

func (c *Camera) SaveToTree(path string, tree *ptree.Tree) error {
	tree.PutFloat(scene.TreePath(path, "fov"), c.FOV)
	tree.PutFloat(scene.TreePath(path, "near"), c.Near)
	tree.PutFloat(scene.TreePath(path, "far"), c.Far)
	return nil
}

func (c *Camera) Destroy() {
	c.Object.Close()
	c.BaseComponent.Destroy()
}
