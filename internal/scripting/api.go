package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/greybox2d/greybox/internal/entity"
)

const actorTypeName = "actor"

func (e *Engine) registerGlobals() {
	e.vm.SetGlobal("delta_time", e.vm.NewFunction(func(L *lua.LState) int {
		if e.clock == nil {
			L.Push(lua.LNumber(0))
			return 1
		}
		L.Push(lua.LNumber(e.clock.Delta().Seconds()))
		return 1
	}))
	e.vm.SetGlobal("frame", e.vm.NewFunction(func(L *lua.LState) int {
		if e.clock == nil {
			L.Push(lua.LNumber(0))
			return 1
		}
		L.Push(lua.LNumber(e.clock.Frame()))
		return 1
	}))
	e.vm.SetGlobal("log", e.vm.NewFunction(func(L *lua.LState) int {
		e.log.Info("lua", zap.String("msg", L.CheckString(1)))
		return 0
	}))
}

func (e *Engine) registerActorType() {
	mt := e.vm.NewTypeMetatable(actorTypeName)
	e.vm.SetField(mt, "__index", e.vm.SetFuncs(e.vm.NewTable(), map[string]lua.LGFunction{
		"name":         actorName,
		"id":           actorID,
		"prefab":       actorPrefab,
		"x":            actorX,
		"y":            actorY,
		"position":     actorPosition,
		"angle":        actorAngle,
		"set_position": actorSetPosition,
		"set_angle":    actorSetAngle,
		"translate":    actorTranslate,
		"rotate":       actorRotate,
		"velocity":     actorVelocity,
		"set_velocity": actorSetVelocity,
		"kill":         actorKill,
		"is_dead":      actorIsDead,
		"add_tag":      actorAddTag,
		"remove_tag":   actorRemoveTag,
		"has_tag":      actorHasTag,
		"set_visible":  actorSetVisible,
		"is_visible":   actorIsVisible,
		"spawn":        e.actorSpawn,
	}))
	e.vm.SetField(mt, "__eq", e.vm.NewFunction(actorEq))
}

// actorValue wraps a in a userdata; nil becomes lua nil.
func (e *Engine) actorValue(a *entity.Actor) lua.LValue {
	if a == nil {
		return lua.LNil
	}
	ud := e.vm.NewUserData()
	ud.Value = a
	e.vm.SetMetatable(ud, e.vm.GetTypeMetatable(actorTypeName))
	return ud
}

func checkActor(L *lua.LState) *entity.Actor {
	ud := L.CheckUserData(1)
	if a, ok := ud.Value.(*entity.Actor); ok {
		return a
	}
	L.ArgError(1, "actor expected")
	return nil
}

func actorName(L *lua.LState) int {
	L.Push(lua.LString(checkActor(L).Name()))
	return 1
}

func actorID(L *lua.LState) int {
	L.Push(lua.LNumber(checkActor(L).ID()))
	return 1
}

func actorPrefab(L *lua.LState) int {
	L.Push(lua.LString(checkActor(L).Prefab()))
	return 1
}

func actorX(L *lua.LState) int {
	L.Push(lua.LNumber(checkActor(L).X()))
	return 1
}

func actorY(L *lua.LState) int {
	L.Push(lua.LNumber(checkActor(L).Y()))
	return 1
}

func actorPosition(L *lua.LState) int {
	x, y := checkActor(L).Position()
	L.Push(lua.LNumber(x))
	L.Push(lua.LNumber(y))
	return 2
}

func actorAngle(L *lua.LState) int {
	L.Push(lua.LNumber(checkActor(L).Angle()))
	return 1
}

func actorSetPosition(L *lua.LState) int {
	checkActor(L).SetPosition(float64(L.CheckNumber(2)), float64(L.CheckNumber(3)))
	return 0
}

func actorSetAngle(L *lua.LState) int {
	checkActor(L).SetAngle(float64(L.CheckNumber(2)))
	return 0
}

// translate(dx, dy [, global])
func actorTranslate(L *lua.LState) int {
	checkActor(L).TranslateBy(float64(L.CheckNumber(2)), float64(L.CheckNumber(3)), L.OptBool(4, false))
	return 0
}

func actorRotate(L *lua.LState) int {
	checkActor(L).RotateBy(float64(L.CheckNumber(2)))
	return 0
}

func actorVelocity(L *lua.LState) int {
	vx, vy := checkActor(L).Velocity()
	L.Push(lua.LNumber(vx))
	L.Push(lua.LNumber(vy))
	return 2
}

func actorSetVelocity(L *lua.LState) int {
	checkActor(L).SetVelocity(float64(L.CheckNumber(2)), float64(L.CheckNumber(3)))
	return 0
}

func actorKill(L *lua.LState) int {
	checkActor(L).Kill()
	return 0
}

func actorIsDead(L *lua.LState) int {
	L.Push(lua.LBool(checkActor(L).IsDead()))
	return 1
}

func actorAddTag(L *lua.LState) int {
	checkActor(L).AddTag(L.CheckString(2))
	return 0
}

func actorRemoveTag(L *lua.LState) int {
	checkActor(L).RemoveTag(L.CheckString(2))
	return 0
}

func actorHasTag(L *lua.LState) int {
	L.Push(lua.LBool(checkActor(L).HasTag(L.CheckString(2))))
	return 1
}

func actorSetVisible(L *lua.LState) int {
	checkActor(L).SetVisible(L.CheckBool(2))
	return 0
}

func actorIsVisible(L *lua.LState) int {
	L.Push(lua.LBool(checkActor(L).IsVisible()))
	return 1
}

// spawn(prefab [, x, y, angle]) returns the new actor, or nil and a message.
// Position defaults to the caller's.
func (e *Engine) actorSpawn(L *lua.LState) int {
	a := checkActor(L)
	prefab := L.CheckString(2)
	x := float64(L.OptNumber(3, lua.LNumber(a.X())))
	y := float64(L.OptNumber(4, lua.LNumber(a.Y())))
	angle := float64(L.OptNumber(5, lua.LNumber(a.Angle())))

	spawned, err := a.Spawn(prefab, x, y, angle)
	if err != nil {
		e.log.Warn("lua spawn failed",
			zap.String("actor", a.Name()),
			zap.String("prefab", prefab),
			zap.Error(err))
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(e.actorValue(spawned))
	return 1
}

func actorEq(L *lua.LState) int {
	a, _ := L.CheckUserData(1).Value.(*entity.Actor)
	b, _ := L.CheckUserData(2).Value.(*entity.Actor)
	L.Push(lua.LBool(a != nil && a == b))
	return 1
}
