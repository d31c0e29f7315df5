package entity

// RigidBody puts the actor's body into the simulation. Without one, an
// actor's colliders still report contacts but the body is never integrated.
type RigidBody struct {
	Base
	trigger   bool
	kinematic bool
	mass      float64
}

func (r *RigidBody) Properties() []Property {
	return []Property{
		BoolProperty("trigger", &r.trigger),
		BoolProperty("kinematic", &r.kinematic),
		FloatProperty("mass", &r.mass),
	}
}

func (r *RigidBody) Init() error {
	a := r.actor
	a.setTrigger(r.trigger)
	a.setKinematic(r.kinematic)
	if r.mass > 0 && !r.kinematic {
		a.body.SetMass(r.mass)
	}
	return a.ctx.World.AddRigidBody(a)
}
