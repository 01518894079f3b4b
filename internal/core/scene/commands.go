package scene

import (
	"fmt"
	"strings"

	"github.com/zeusync/zengine/internal/core/terminal"
	"github.com/zeusync/zengine/pkg/math3d"
)

// registerCommands exposes the entity on the terminal:
//
//	<entity> move-x|move-y|move-z <d>
//	<entity> translate <x> <y> <z> [local|parent|global]
//	<entity> rotate-x|rotate-y|rotate-z <degrees>
//	<entity> rotate <ax> <ay> <az> <degrees> [local|parent|global]
//	<entity> look-at <x> <y> <z> [<upx> <upy> <upz>]
//	<entity> print | tree | children | components
//	<entity> add-child <name> | remove-child <name>
//	<entity> add-component <type> | remove-component <type>
//	<entity> set position|position-rel <x> <y> <z>
//	<entity> set orientation|orientation-rel <ax> <ay> <az> <degrees>
func (e *Entity) registerCommands() {
	for _, axis := range []struct {
		name string
		dir  math3d.Vec3
	}{{"x", math3d.UnitX}, {"y", math3d.UnitY}, {"z", math3d.UnitZ}} {
		e.RegisterCommand("move-"+axis.name, e.moveAlong(axis.dir))
		e.RegisterCommand("rotate-"+axis.name, e.rotateAround(axis.dir))
	}
	e.RegisterCommand("translate", e.cmdTranslate)
	e.RegisterCommand("rotate", e.cmdRotate)
	e.RegisterCommand("look-at", e.cmdLookAt)
	e.RegisterCommand("print", e.cmdPrint)
	e.RegisterCommand("tree", func([]string) (string, error) {
		return strings.TrimSuffix(e.TreeToString(), "\n"), nil
	})
	e.RegisterCommand("children", func([]string) (string, error) {
		names := make([]string, 0, len(e.children))
		for _, c := range e.Children() {
			names = append(names, c.Name())
		}
		return strings.Join(names, " "), nil
	})
	e.RegisterCommand("components", func([]string) (string, error) {
		return strings.Join(e.ComponentTypes(), " "), nil
	})
	e.RegisterCommand("add-child", e.cmdAddChild)
	e.RegisterCommand("remove-child", e.cmdRemoveChild)
	e.RegisterCommand("add-component", e.cmdAddComponent)
	e.RegisterCommand("remove-component", e.cmdRemoveComponent)

	e.RegisterAttribute("position", e.vecSetter(e.SetPositionAbs))
	e.RegisterAttribute("position-rel", e.vecSetter(e.SetPositionRel))
	e.RegisterAttribute("orientation", e.quatSetter(e.SetOrientationAbs))
	e.RegisterAttribute("orientation-rel", e.quatSetter(e.SetOrientationRel))
}

func (e *Entity) moveAlong(dir math3d.Vec3) terminal.Func {
	return func(args []string) (string, error) {
		d, err := oneFloat(args)
		if err != nil {
			return "", err
		}
		return "", e.Translate(dir.MulScalar(d), SpaceLocal)
	}
}

func (e *Entity) rotateAround(axis math3d.Vec3) terminal.Func {
	return func(args []string) (string, error) {
		deg, err := oneFloat(args)
		if err != nil {
			return "", err
		}
		return "", e.RotateAxis(axis, deg, SpaceLocal)
	}
}

func (e *Entity) cmdTranslate(args []string) (string, error) {
	d, err := math3d.ParseVec3(args)
	if err != nil {
		return "", err
	}
	space, err := optionalSpace(args, 3)
	if err != nil {
		return "", err
	}
	return "", e.Translate(d, space)
}

func (e *Entity) cmdRotate(args []string) (string, error) {
	axis, deg, err := axisAngle(args)
	if err != nil {
		return "", err
	}
	space, err := optionalSpace(args, 4)
	if err != nil {
		return "", err
	}
	return "", e.RotateAxis(axis, deg, space)
}

func (e *Entity) cmdLookAt(args []string) (string, error) {
	target, err := math3d.ParseVec3(args)
	if err != nil {
		return "", err
	}
	up := math3d.UnitY
	if len(args) >= 6 {
		if up, err = math3d.ParseVec3(args[3:]); err != nil {
			return "", err
		}
	}
	e.LookAt(target, up)
	return "", nil
}

func (e *Entity) cmdPrint([]string) (string, error) {
	axis, angle := e.oriAbs.AxisAngle()
	return fmt.Sprintf("%s position=%s position-rel=%s orientation=%s %gdeg",
		e.Name(), e.posAbs, e.posRel, axis, math3d.RadToDeg(angle)), nil
}

func (e *Entity) cmdAddChild(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%w: add-child <name>", terminal.ErrMissingArgument)
	}
	if _, err := e.AddChild(args[0]); err != nil {
		return "", err
	}
	return "", nil
}

func (e *Entity) cmdRemoveChild(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%w: remove-child <name>", terminal.ErrMissingArgument)
	}
	return "", e.RemoveChildByName(args[0])
}

func (e *Entity) cmdAddComponent(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%w: add-component <%s>", terminal.ErrMissingArgument,
			strings.Join(e.scene.factory.Types(), "|"))
	}
	if _, err := e.AddComponent(args[0]); err != nil {
		return "", err
	}
	return "", nil
}

func (e *Entity) cmdRemoveComponent(args []string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("%w: remove-component <type>", terminal.ErrMissingArgument)
	}
	if !e.RemoveComponent(args[0]) {
		return "", fmt.Errorf("%w: %s", ErrUnknownComponentType, args[0])
	}
	return "", nil
}

func (e *Entity) vecSetter(set func(math3d.Vec3)) terminal.Func {
	return func(args []string) (string, error) {
		v, err := math3d.ParseVec3(args)
		if err != nil {
			return "", err
		}
		set(v)
		return "", nil
	}
}

func (e *Entity) quatSetter(set func(math3d.Quat)) terminal.Func {
	return func(args []string) (string, error) {
		axis, deg, err := axisAngle(args)
		if err != nil {
			return "", err
		}
		set(math3d.QuatAxisAngle(axis, math3d.DegToRad(deg)))
		return "", nil
	}
}

func oneFloat(args []string) (float32, error) {
	if len(args) == 0 {
		return 0, terminal.ErrMissingArgument
	}
	return math3d.ParseFloat(args[0])
}

func axisAngle(args []string) (math3d.Vec3, float32, error) {
	if len(args) < 4 {
		return math3d.Vec3{}, 0, fmt.Errorf("%w: <ax> <ay> <az> <degrees>", terminal.ErrMissingArgument)
	}
	axis, err := math3d.ParseVec3(args)
	if err != nil {
		return math3d.Vec3{}, 0, err
	}
	if axis.LengthSq() == 0 {
		return math3d.Vec3{}, 0, fmt.Errorf("rotation axis is zero")
	}
	deg, err := math3d.ParseFloat(args[3])
	if err != nil {
		return math3d.Vec3{}, 0, err
	}
	return axis, deg, nil
}

func optionalSpace(args []string, at int) (Space, error) {
	if len(args) <= at {
		return SpaceLocal, nil
	}
	return ParseSpace(args[at])
}
