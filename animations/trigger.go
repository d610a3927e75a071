// Copyright (C) 2024 Michael J. Fromberger. All Rights Reserved.

package animations

import "github.com/creachadair/fsotab"

// A Trigger is the event that starts an animation.
type Trigger interface{ isTrigger() }

type (
	Initial     struct{}
	OnSpawn     struct{}
	Afterburner struct{}

	DockingStage1 struct{ Dock Docking }
	DockingStage2 struct{ Dock Docking }
	DockingStage3 struct{ Dock Docking }
	Docked        struct{ Dock Docking }

	PrimaryBank    struct{ Bank WeaponBank }
	PrimaryFired   struct{ Bank WeaponBank }
	SecondaryBank  struct{ Bank WeaponBank }
	SecondaryFired struct{ Bank WeaponBank }

	Fighterbay struct{ Bay Bay }

	TurretFiring struct{ Turret Turret }
	TurretFired  struct{ Turret Turret }

	Scripted struct{ Script Script }
)

// Docking is the payload of a docking trigger.
type Docking struct {
	fsotab.Meta `fso:"prefix=+"`

	TriggeredBy string // docking port name or number
}

// WeaponBank is the payload of a weapon trigger.
type WeaponBank struct {
	fsotab.Meta `fso:"prefix=+"`

	TriggeredBy uint32 // bank number
}

// Bay is the payload of a fighterbay trigger.
type Bay struct {
	fsotab.Meta `fso:"prefix=+"`

	TriggeredBy string // fighterbay name or number
}

// Turret is the payload of a turret trigger.
type Turret struct {
	fsotab.Meta `fso:"prefix=+"`

	TriggeredBy string // turret subsystem name
}

// Script is the payload of a scripted trigger.
type Script struct {
	fsotab.Meta `fso:"prefix=+"`

	TriggeredBy string
}

func (Initial) isTrigger()        {}
func (OnSpawn) isTrigger()        {}
func (Afterburner) isTrigger()    {}
func (DockingStage1) isTrigger()  {}
func (DockingStage2) isTrigger()  {}
func (DockingStage3) isTrigger()  {}
func (Docked) isTrigger()         {}
func (PrimaryBank) isTrigger()    {}
func (PrimaryFired) isTrigger()   {}
func (SecondaryBank) isTrigger()  {}
func (SecondaryFired) isTrigger() {}
func (Fighterbay) isTrigger()     {}
func (TurretFiring) isTrigger()   {}
func (TurretFired) isTrigger()    {}
func (Scripted) isTrigger()       {}

func init() {
	fsotab.RegisterUnion[Trigger](fsotab.UnionConfig{},
		fsotab.Case[Initial](fsotab.Token("initial")),
		fsotab.Case[OnSpawn](fsotab.Token("on-spawn")),
		fsotab.Case[DockingStage1](fsotab.Token("docking-stage-1")),
		fsotab.Case[DockingStage2](fsotab.Token("docking-stage-2")),
		fsotab.Case[DockingStage3](fsotab.Token("docking-stage-3")),
		fsotab.Case[Docked](fsotab.Token("docked")),
		fsotab.Case[PrimaryBank](fsotab.Token("primary-bank")),
		fsotab.Case[PrimaryFired](fsotab.Token("primary-fired")),
		fsotab.Case[SecondaryBank](fsotab.Token("secondary-bank")),
		fsotab.Case[SecondaryFired](fsotab.Token("secondary-fired")),
		fsotab.Case[Fighterbay](fsotab.Token("fighterbay")),
		fsotab.Case[Afterburner](fsotab.Token("afterburner")),
		fsotab.Case[TurretFiring](fsotab.Token("turret-firing")),
		fsotab.Case[TurretFired](fsotab.Token("turret-fired")),
		fsotab.Case[Scripted](fsotab.Token("scripted")),
	)
}
