package components

import "github.com/zeusync/zengine/internal/core/scene"

// Register adds Camera, Light and RenderableMesh to f.
func Register(f *scene.Factory) error {
	for name, ctor := range map[string]scene.Constructor{
		CameraType:         func(e *scene.Entity) (scene.Component, error) { return NewCamera(e) },
		LightType:          func(e *scene.Entity) (scene.Component, error) { return NewLight(e) },
		RenderableMeshType: func(e *scene.Entity) (scene.Component, error) { return NewRenderableMesh(e) },
	} {
		if err := f.Register(name, ctor); err != nil {
			return err
		}
	}
	return nil
}
