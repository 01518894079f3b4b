package scene

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/zengine/internal/core/events/bus"
	"github.com/zeusync/zengine/internal/core/observability/log"
	"github.com/zeusync/zengine/internal/core/ptree"
	"github.com/zeusync/zengine/internal/core/terminal"
	"github.com/zeusync/zengine/pkg/math3d"
)

const eps = 1e-4

type testComponent struct {
	BaseComponent
	value        string
	destroyCalls int
}

func newTestComponent(kind string, owner *Entity) (*testComponent, error) {
	c := &testComponent{BaseComponent: NewBaseComponent(kind, "test component")}
	if err := c.Attach(owner, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *testComponent) LoadFromTree(path string, tree *ptree.Tree) error {
	c.value = tree.GetString(path+".value", "")
	return nil
}

func (c *testComponent) SaveToTree(path string, tree *ptree.Tree) error {
	tree.Put(path+".value", c.value)
	return nil
}

func (c *testComponent) Destroy() {
	c.destroyCalls++
	c.BaseComponent.Destroy()
}

type testBody struct {
	testComponent
	updates  int
	position math3d.Vec3
	rotation math3d.Quat
}

func newTestBody(owner *Entity) (*testBody, error) {
	b := &testBody{testComponent: testComponent{BaseComponent: NewBaseComponent(RigidBodyType, "body")}}
	if err := b.Attach(owner, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *testBody) OnTransformChanged(p math3d.Vec3, q math3d.Quat) {
	b.updates++
	b.position = p
	b.rotation = q
}

func newTestScene(t *testing.T, opts ...Option) *Scene {
	t.Helper()
	return New(terminal.New(log.Nop()), opts...)
}

func assertVec(t *testing.T, want, got math3d.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqual(got, eps), "want %v, got %v", want, got)
}

func assertQuat(t *testing.T, want, got math3d.Quat) {
	t.Helper()
	assert.True(t, want.ApproxEqual(got, eps), "want %v, got %v", want, got)
}

// assertConsistent checks abs = parent.abs + rel and abs = parent.abs * rel
// for every entity below e.
func assertConsistent(t *testing.T, e *Entity) {
	t.Helper()
	for _, c := range e.Children() {
		assertVec(t, e.PositionAbs().Add(c.PositionRel()), c.PositionAbs())
		assertQuat(t, e.OrientationAbs().Mul(c.OrientationRel()), c.OrientationAbs())
		assertConsistent(t, c)
	}
}

func rotZ(deg float32) math3d.Quat {
	return math3d.QuatAxisAngle(math3d.UnitZ, math3d.DegToRad(deg))
}

func rotY(deg float32) math3d.Quat {
	return math3d.QuatAxisAngle(math3d.UnitY, math3d.DegToRad(deg))
}

func rotX(deg float32) math3d.Quat {
	return math3d.QuatAxisAngle(math3d.UnitX, math3d.DegToRad(deg))
}

func TestAddChildRegistersEntity(t *testing.T) {
	s := newTestScene(t)
	a, err := s.Root().AddChild("a")
	require.NoError(t, err)
	a1, err := a.AddChild("a1")
	require.NoError(t, err)

	assert.Same(t, s.Root(), a.Parent())
	assert.Same(t, a, a1.Parent())
	assert.Equal(t, []string{"a", "a1"}, s.Registry().Names())

	found, err := s.Find("a1")
	require.NoError(t, err)
	assert.Same(t, a1, found)
	root, err := s.Find(RootName)
	require.NoError(t, err)
	assert.True(t, root.IsRoot())

	_, ok := s.Terminal().FindObject("a1")
	assert.True(t, ok)
}

func TestAddChildRejectsBadNames(t *testing.T) {
	s := newTestScene(t)
	a, err := s.Root().AddChild("a")
	require.NoError(t, err)
	_, err = s.Root().AddChild("b")
	require.NoError(t, err)

	// names are unique across the whole tree, not per parent
	_, err = a.AddChild("b")
	assert.ErrorIs(t, err, ErrDuplicateName)
	_, err = a.AddChild(RootName)
	assert.ErrorIs(t, err, ErrDuplicateName)

	for _, name := range []string{"", "two words", "#comment", "a.camera"} {
		_, err = a.AddChild(name)
		assert.ErrorIs(t, err, ErrInvalidName, name)
	}
	assert.Equal(t, 0, a.ChildCount())
	assert.Equal(t, 2, s.Registry().Len())
}

func TestComponentObjectNamesCannotShadowEntities(t *testing.T) {
	s := newTestScene(t)
	term := s.Terminal()
	cube, err := s.Root().AddChild("cube")
	require.NoError(t, err)

	_, err = s.Root().AddChild(ObjectNameFor(cube, "camera"))
	require.ErrorIs(t, err, ErrInvalidName)
	assert.False(t, s.Registry().Contains("cube.camera"))

	out, err := term.Execute("root add-child cube.camera")
	require.NoError(t, err)
	assert.Contains(t, out, "Error: ")
	assert.False(t, s.Registry().Contains("cube.camera"))

	_, err = term.Execute("cube move-x 3")
	require.NoError(t, err)
	assertVec(t, math3d.V3(3, 0, 0), cube.PositionAbs())
}

func TestChildStartsAtParentTransform(t *testing.T) {
	s := newTestScene(t)
	p, _ := s.Root().AddChild("p")
	p.SetPositionAbs(math3d.V3(1, 2, 3))
	p.SetOrientationAbs(rotZ(30))

	c, err := p.AddChild("c")
	require.NoError(t, err)
	assertVec(t, math3d.V3(1, 2, 3), c.PositionAbs())
	assertVec(t, math3d.Zero, c.PositionRel())
	assertQuat(t, rotZ(30), c.OrientationAbs())
	assertQuat(t, math3d.Identity, c.OrientationRel())
}

func TestPositionPropagation(t *testing.T) {
	s := newTestScene(t)
	p, _ := s.Root().AddChild("p")
	c, _ := p.AddChild("c")
	g, _ := c.AddChild("g")

	p.SetPositionAbs(math3d.V3(1, 0, 0))
	c.SetPositionRel(math3d.V3(0, 1, 0))
	g.SetPositionRel(math3d.V3(0, 0, 1))
	assertVec(t, math3d.V3(1, 1, 0), c.PositionAbs())
	assertVec(t, math3d.V3(1, 1, 1), g.PositionAbs())

	p.SetPositionAbs(math3d.V3(5, 0, 0))
	assertVec(t, math3d.V3(5, 1, 0), c.PositionAbs())
	assertVec(t, math3d.V3(0, 1, 0), c.PositionRel())
	assertVec(t, math3d.V3(5, 1, 1), g.PositionAbs())

	c.SetPositionAbs(math3d.Zero)
	assertVec(t, math3d.V3(-5, 0, 0), c.PositionRel())
	assertVec(t, math3d.V3(0, 0, 1), g.PositionAbs())
	assertConsistent(t, s.Root())
}

func TestOrientationPropagation(t *testing.T) {
	s := newTestScene(t)
	p, _ := s.Root().AddChild("p")
	c, _ := p.AddChild("c")
	g, _ := c.AddChild("g")
	c.SetPositionRel(math3d.V3(1, 0, 0))
	g.SetPositionRel(math3d.V3(1, 0, 0))

	p.SetOrientationAbs(rotZ(90))

	assertVec(t, math3d.V3(0, 1, 0), c.PositionAbs())
	assertVec(t, math3d.V3(0, 2, 0), g.PositionAbs())
	assertQuat(t, rotZ(90), c.OrientationAbs())
	assertQuat(t, math3d.Identity, c.OrientationRel())
	assertQuat(t, rotZ(90), g.OrientationAbs())
	assertConsistent(t, s.Root())

	// the second rotation only applies the delta
	p.SetOrientationAbs(rotZ(180))
	assertVec(t, math3d.V3(-1, 0, 0), c.PositionAbs())
	assertVec(t, math3d.V3(-2, 0, 0), g.PositionAbs())
	assertConsistent(t, s.Root())
}

func TestOrientationIsNormalized(t *testing.T) {
	s := newTestScene(t)
	e, _ := s.Root().AddChild("e")
	e.SetOrientationRel(math3d.NewQuat(0, 0, 2, 2))
	assert.InDelta(t, 1.0, float64(e.OrientationAbs().Length()), eps)
	assert.InDelta(t, 1.0, float64(e.OrientationRel().Length()), eps)
	assertQuat(t, rotZ(90), e.OrientationAbs())
}

func TestDualRepresentationStaysConsistent(t *testing.T) {
	s := newTestScene(t)
	a, _ := s.Root().AddChild("a")
	b, _ := a.AddChild("b")
	c, _ := b.AddChild("c")
	d, _ := a.AddChild("d")

	steps := []func(){
		func() { a.SetPositionAbs(math3d.V3(3, -1, 2)) },
		func() { b.SetPositionRel(math3d.V3(0, 2, 0)) },
		func() { _ = a.RotateAxis(math3d.V3(1, 1, 0), 35, SpaceGlobal) },
		func() { _ = b.RotateAxis(math3d.UnitZ, -60, SpaceLocal) },
		func() { _ = c.Translate(math3d.V3(1, 0, 0), SpaceLocal) },
		func() { _ = d.Translate(math3d.V3(0, 0, 4), SpaceParent) },
		func() { b.SetOrientationAbs(rotX(10)) },
		func() { c.LookAt(math3d.V3(10, 10, 10), math3d.UnitY) },
		func() { _ = a.RotateAxis(math3d.UnitY, 120, SpaceParent) },
	}
	for _, step := range steps {
		step()
		assertConsistent(t, s.Root())
	}
}

func TestTranslateSpaces(t *testing.T) {
	s := newTestScene(t)
	p, _ := s.Root().AddChild("p")
	c, _ := p.AddChild("c")
	p.SetOrientationAbs(rotY(90))

	e, _ := s.Root().AddChild("e")
	e.SetOrientationAbs(rotY(90))
	require.NoError(t, e.Translate(math3d.V3(0, 0, -1), SpaceLocal))
	assertVec(t, math3d.V3(-1, 0, 0), e.PositionAbs())

	require.NoError(t, e.Translate(math3d.V3(0, 0, -1), SpaceGlobal))
	assertVec(t, math3d.V3(-1, 0, -1), e.PositionAbs())

	require.NoError(t, c.Translate(math3d.V3(1, 0, 0), SpaceParent))
	assertVec(t, math3d.V3(0, 0, -1), c.PositionAbs())
	assertVec(t, math3d.V3(0, 0, -1), c.PositionRel())
}

func TestInvalidSpaceLeavesStateUnchanged(t *testing.T) {
	s := newTestScene(t)
	e, _ := s.Root().AddChild("e")
	e.SetPositionAbs(math3d.V3(1, 2, 3))
	e.SetOrientationAbs(rotX(45))

	assert.ErrorIs(t, e.Translate(math3d.V3(1, 1, 1), Space(7)), ErrInvalidSpace)
	assert.ErrorIs(t, e.Rotate(rotY(10), Space(-1)), ErrInvalidSpace)
	assertVec(t, math3d.V3(1, 2, 3), e.PositionAbs())
	assertQuat(t, rotX(45), e.OrientationAbs())
}

func TestRotateSpaces(t *testing.T) {
	s := newTestScene(t)
	p, _ := s.Root().AddChild("p")
	p.SetOrientationAbs(rotY(90))
	local, _ := p.AddChild("local")
	parent, _ := p.AddChild("parent")
	global, _ := p.AddChild("global")
	for _, e := range []*Entity{local, parent, global} {
		e.SetOrientationRel(rotZ(90))
	}

	require.NoError(t, local.Rotate(rotX(90), SpaceLocal))
	require.NoError(t, parent.Rotate(rotX(90), SpaceParent))
	require.NoError(t, global.Rotate(rotX(90), SpaceGlobal))

	assertQuat(t, rotZ(90).Mul(rotX(90)), local.OrientationRel())
	assertQuat(t, rotX(90).Mul(rotZ(90)), parent.OrientationRel())
	assertQuat(t, rotX(90).Mul(rotY(90)).Mul(rotZ(90)), global.OrientationAbs())
	assertConsistent(t, s.Root())
}

func TestLookAt(t *testing.T) {
	s := newTestScene(t)
	e, _ := s.Root().AddChild("e")
	e.SetPositionAbs(math3d.V3(1, 0, 0))

	e.LookAt(math3d.V3(1, 0, -5), math3d.UnitY)
	assertQuat(t, math3d.Identity, e.OrientationAbs())

	e.LookAt(math3d.V3(6, 0, 0), math3d.UnitY)
	forward := e.OrientationAbs().Rotate(math3d.V3(0, 0, -1))
	assertVec(t, math3d.UnitX, forward)
	assertVec(t, math3d.UnitY, e.OrientationAbs().Rotate(math3d.UnitY))
}

func TestTransformIsForwardedToBody(t *testing.T) {
	s := newTestScene(t)
	p, _ := s.Root().AddChild("p")
	c, _ := p.AddChild("c")
	body, err := newTestBody(c)
	require.NoError(t, err)
	assert.Equal(t, 1, body.updates)

	p.SetPositionAbs(math3d.V3(0, 3, 0))
	assertVec(t, math3d.V3(0, 3, 0), body.position)

	p.SetOrientationAbs(rotZ(90))
	assertQuat(t, rotZ(90), body.rotation)

	before := body.updates
	body.Destroy()
	p.SetPositionAbs(math3d.Zero)
	assert.Equal(t, before, body.updates)
}

func TestComponentReplaceDoesNotDestroyPrevious(t *testing.T) {
	s := newTestScene(t)
	e, _ := s.Root().AddChild("e")
	first, err := newTestComponent("Camera", e)
	require.NoError(t, err)
	second, err := newTestComponent("Camera", e)
	require.NoError(t, err)

	assert.Same(t, second, e.Component("Camera"))
	assert.Equal(t, 0, first.destroyCalls)
	assert.False(t, first.Destroyed())

	// destroying the orphan still nulls the slot it no longer occupies
	first.Destroy()
	assert.Nil(t, e.Component("Camera"))
	assert.True(t, e.HasComponentSlot("Camera"))
	assert.False(t, e.HasComponent("Camera"))
	assert.Empty(t, e.ComponentTypes())
}

func TestComponentDestroyLeavesNilSlot(t *testing.T) {
	s := newTestScene(t)
	e, _ := s.Root().AddChild("e")
	c, _ := newTestComponent("Light", e)
	assert.Equal(t, []string{"Light"}, e.ComponentTypes())
	assert.Same(t, e, c.Entity())
	assert.Equal(t, "Light", c.Type())
	assert.Equal(t, "test component", c.Description())

	assert.True(t, e.RemoveComponent("Light"))
	assert.False(t, e.RemoveComponent("Light"))
	assert.True(t, e.HasComponentSlot("Light"))
	assert.Nil(t, e.Component("Light"))

	c.Destroy()
	assert.Equal(t, 2, c.destroyCalls)
}

func TestAttachNeedsEntity(t *testing.T) {
	_, err := newTestComponent("Camera", nil)
	assert.ErrorIs(t, err, ErrNilEntity)
}

func TestRemoveChildDestroysSubtree(t *testing.T) {
	s := newTestScene(t)
	a, _ := s.Root().AddChild("a")
	a1, _ := a.AddChild("a1")
	a2, _ := a1.AddChild("a2")
	b, _ := s.Root().AddChild("b")
	comp, _ := newTestComponent("Camera", a1)

	require.NoError(t, s.Root().RemoveChild(a))

	for _, e := range []*Entity{a, a1, a2} {
		assert.True(t, e.Destroyed(), e.Name())
		assert.True(t, e.Closed(), e.Name())
		_, ok := s.Terminal().FindObject(e.Name())
		assert.False(t, ok, e.Name())
	}
	assert.Equal(t, 1, comp.destroyCalls)
	assert.Equal(t, []string{"b"}, s.Registry().Names())
	assert.False(t, b.Destroyed())
	assert.Equal(t, 1, s.Root().ChildCount())

	assert.ErrorIs(t, s.Root().RemoveChild(a), ErrNotAChild)
	assert.ErrorIs(t, s.Root().RemoveChild(nil), ErrNotAChild)
	assert.ErrorIs(t, a1.RemoveChild(b), ErrNotAChild)
	_, err := a.AddChild("x")
	assert.ErrorIs(t, err, ErrEntityDestroyed)

	// the name can be used again
	_, err = s.Root().AddChild("a1")
	assert.NoError(t, err)
}

func TestRemoveAllChildrenClearsWholeRegistry(t *testing.T) {
	s := newTestScene(t)
	a, _ := s.Root().AddChild("a")
	_, _ = a.AddChild("a1")
	b, _ := s.Root().AddChild("b")

	a.RemoveAllChildren()

	assert.Equal(t, 0, a.ChildCount())
	assert.Equal(t, 0, s.Registry().Len())
	// b is alive and still in the tree, but no longer registered
	assert.False(t, b.Destroyed())
	_, ok := s.Root().Child("b")
	assert.True(t, ok)
	_, err := s.Find("b")
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestSceneEvents(t *testing.T) {
	b := bus.New()
	var got []string
	for _, typ := range []string{EventEntityCreated, EventEntityDestroyed, EventComponentAttached, EventComponentDestroyed} {
		_, err := b.Subscribe(typ, func(ev bus.Event) error {
			switch data := ev.Data().(type) {
			case EntityEvent:
				got = append(got, ev.Type()+":"+data.Name)
			case ComponentEvent:
				got = append(got, ev.Type()+":"+data.Entity.Name()+"/"+data.Type)
			}
			return nil
		})
		require.NoError(t, err)
	}
	s := newTestScene(t, WithBus(b))

	a, _ := s.Root().AddChild("a")
	_, _ = newTestComponent("Light", a)
	_, _ = a.AddChild("a1")
	require.NoError(t, s.Root().RemoveChild(a))

	assert.Equal(t, []string{
		"entity.created:a",
		"component.attached:a/Light",
		"entity.created:a1",
		"component.destroyed:a/Light",
		"entity.destroyed:a1",
		"entity.destroyed:a",
	}, got)
}

func TestFactory(t *testing.T) {
	f := NewFactory()
	require.NoError(t, f.Register("Camera", func(owner *Entity) (Component, error) {
		return newTestComponent("Camera", owner)
	}))
	require.NoError(t, f.Register("Light", func(owner *Entity) (Component, error) {
		return newTestComponent("Light", owner)
	}))
	assert.ErrorIs(t, f.Register("Camera", nil), ErrDuplicateType)
	assert.Equal(t, []string{"Camera", "Light"}, f.Types())
	assert.Equal(t, TypeIDOf("Camera"), TypeIDOf("Camera"))
	assert.NotEqual(t, TypeIDOf("Camera"), TypeIDOf("Light"))

	s := newTestScene(t, WithFactory(f))
	e, _ := s.Root().AddChild("e")

	c, err := e.AddComponent("Camera")
	require.NoError(t, err)
	assert.Same(t, c, e.Component("Camera"))

	c2, err := f.CreateByID(TypeIDOf("Light"), e)
	require.NoError(t, err)
	assert.Equal(t, "Light", c2.Type())

	_, err = e.AddComponent("Sound")
	assert.ErrorIs(t, err, ErrUnknownComponentType)
	_, err = f.Create("Camera", nil)
	assert.ErrorIs(t, err, ErrNilEntity)
}

func TestTreeToString(t *testing.T) {
	s := newTestScene(t)
	b, _ := s.Root().AddChild("b")
	a, _ := s.Root().AddChild("a")
	_, _ = a.AddChild("a1")
	_, _ = newTestComponent("Light", b)
	_, _ = newTestComponent("Camera", b)

	assert.Equal(t, "root\n  a\n    a1\n  b [Camera Light]\n", s.Root().TreeToString())
	assert.Equal(t, "a\n  a1\n", a.TreeToString())
}

func TestParseSpace(t *testing.T) {
	for in, want := range map[string]Space{"local": SpaceLocal, "PARENT": SpaceParent, "global": SpaceGlobal, "world": SpaceGlobal} {
		got, err := ParseSpace(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseSpace("sideways")
	assert.ErrorIs(t, err, ErrInvalidSpace)
	assert.Equal(t, "parent", SpaceParent.String())
}

func TestEntityCommands(t *testing.T) {
	s := newTestScene(t)
	term := s.Terminal()

	run := func(text string) string {
		t.Helper()
		out, err := term.Execute(text)
		require.NoError(t, err, text)
		return out
	}

	run("root add-child cube")
	cube, err := s.Find("cube")
	require.NoError(t, err)

	run("cube translate 1 2 3 global")
	assertVec(t, math3d.V3(1, 2, 3), cube.PositionAbs())

	run("cube move-x 2")
	assertVec(t, math3d.V3(3, 2, 3), cube.PositionAbs())

	run("cube set position 0 0 0")
	assertVec(t, math3d.Zero, cube.PositionAbs())

	run("cube rotate-y 90")
	assertQuat(t, rotY(90), cube.OrientationAbs())

	run("cube set orientation 0 0 1 90")
	assertQuat(t, rotZ(90), cube.OrientationAbs())

	run("cube rotate 0 0 1 -90 global")
	assertQuat(t, math3d.Identity, cube.OrientationAbs())

	run("cube look-at 5 0 0")
	assertVec(t, math3d.UnitX, cube.OrientationAbs().Rotate(math3d.V3(0, 0, -1)))

	run("cube add-child lid")
	run("cube set position-rel 0 1 0")
	assert.Equal(t, "lid", run("cube children"))
	assert.Equal(t, "cube\n  lid", run("cube tree"))
	assert.True(t, strings.HasPrefix(run("cube print"), "cube position=(0, 1, 0)"))

	assert.True(t, strings.HasPrefix(run("cube translate 1 2"), "Error: "))
	assert.Contains(t, run("cube translate 1 0 0 sideways"), "invalid space")
	assert.True(t, strings.HasPrefix(run("cube add-child lid"), "Error: "))
	assert.True(t, strings.HasPrefix(run("cube add-component Nope"), "Error: "))

	run("cube remove-child lid")
	_, ok := term.FindObject("lid")
	assert.False(t, ok)
	assert.Equal(t, "", run("cube children"))

	run("root remove-child cube")
	assert.True(t, cube.Destroyed())
	_, err = term.Execute("cube print")
	assert.ErrorIs(t, err, terminal.ErrObjectNotFound)
}

func TestAttributeSetters(t *testing.T) {
	var (
		f float32
		v math3d.Vec3
		s string
		b bool
	)
	_, err := FloatAttribute(&f)([]string{"2.5"})
	require.NoError(t, err)
	_, err = Vec3Attribute(&v)([]string{"1", "2", "3"})
	require.NoError(t, err)
	_, err = StringAttribute(&s)([]string{"two", "words"})
	require.NoError(t, err)
	_, err = BoolAttribute(&b)([]string{"true"})
	require.NoError(t, err)

	assert.Equal(t, float32(2.5), f)
	assert.Equal(t, math3d.V3(1, 2, 3), v)
	assert.Equal(t, "two words", s)
	assert.True(t, b)

	_, err = FloatAttribute(&f)(nil)
	assert.ErrorIs(t, err, terminal.ErrMissingArgument)
	_, err = BoolAttribute(&b)([]string{"maybe"})
	assert.Error(t, err)
	assert.True(t, b)

	assert.Equal(t, "fov", TreePath("", "fov"))
	assert.Equal(t, "Camera.fov", TreePath("Camera", "fov"))
}

func TestAddChildRejectsTakenObjectName(t *testing.T) {
	s := newTestScene(t)
	s.Terminal().InstallBuiltins()
	_, err := s.Root().AddChild(terminal.BuiltinObjectName)
	assert.ErrorIs(t, err, ErrDuplicateName)
}
