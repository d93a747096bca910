package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/achilleasa/go-daylight/bvh"
	"github.com/achilleasa/go-daylight/geometry"
	"github.com/achilleasa/go-daylight/log"
	"github.com/achilleasa/go-daylight/material"
	"github.com/achilleasa/go-daylight/ray"
	"github.com/achilleasa/go-daylight/types"
)

var (
	ErrInvalidMaterial  = errors.New("scene: invalid material index")
	ErrInvalidPrimitive = errors.New("scene: invalid primitive")
	ErrAlreadyBuilt     = errors.New("scene: scene has already been built")
	ErrNotBuilt         = errors.New("scene: scene has not been built")
)

// An Object couples a primitive with the materials of its two sides.
type Object struct {
	Primitive geometry.Primitive
	Front     int
	Back      int
}

type Scene struct {
	logger log.Logger

	Materials []material.Material

	// Bounded objects. Build reorders this list to match the BVH leafs.
	Objects []Object

	// Sources at infinity. They are not part of the BVH.
	DistantLights []Object

	// Indices into Objects of the objects with an emitting side.
	Lights []int

	// Options used when building the BVH.
	BvhOptions bvh.Options

	primitives []geometry.Primitive
	tree       *bvh.Tree
}

// Create an empty scene.
func New() *Scene {
	return &Scene{
		logger:     log.New("scene"),
		BvhOptions: bvh.DefaultOptions(),
	}
}

// Append a material and return its index.
func (sc *Scene) PushMaterial(m material.Material) int {
	sc.Materials = append(sc.Materials, m)
	return len(sc.Materials) - 1
}

// Append an object. Distant sources are appended to DistantLights and the
// returned index refers to that list.
func (sc *Scene) PushObject(prim geometry.Primitive, front, back int) (int, error) {
	if sc.tree != nil {
		return -1, ErrAlreadyBuilt
	}
	for _, idx := range [2]int{front, back} {
		if idx < 0 || idx >= len(sc.Materials) {
			return -1, fmt.Errorf("%w: %d (%d materials defined)", ErrInvalidMaterial, idx, len(sc.Materials))
		}
	}
	if err := validatePrimitive(prim); err != nil {
		return -1, err
	}

	obj := Object{Primitive: prim, Front: front, Back: back}
	if _, isDistant := prim.(*geometry.DistantSource); isDistant {
		sc.DistantLights = append(sc.DistantLights, obj)
		return len(sc.DistantLights) - 1, nil
	}
	sc.Objects = append(sc.Objects, obj)
	return len(sc.Objects) - 1, nil
}

func validatePrimitive(prim geometry.Primitive) error {
	switch p := prim.(type) {
	case *geometry.Sphere:
		if !(p.Radius > 0) {
			return fmt.Errorf("%w: sphere radius must be positive; got %g", ErrInvalidPrimitive, p.Radius)
		}
	case *geometry.Triangle:
		if p.Area() == 0 {
			return fmt.Errorf("%w: degenerate triangle", ErrInvalidPrimitive)
		}
	case *geometry.Cylinder:
		if !(p.Radius > 0) || p.Top.Sub(p.Base).LenSq() == 0 {
			return fmt.Errorf("%w: degenerate cylinder", ErrInvalidPrimitive)
		}
	case *geometry.DistantSource:
		if !(p.Angle > 0) || math.Abs(p.Direction.Len()-1) > 1e-6 {
			return fmt.Errorf("%w: distant source needs a unit direction and a positive angle", ErrInvalidPrimitive)
		}
	case nil:
		return fmt.Errorf("%w: nil primitive", ErrInvalidPrimitive)
	}
	return nil
}

// Build the BVH. Objects are reordered so that each leaf references a
// contiguous range. Build may only be called once.
func (sc *Scene) Build() error {
	if sc.tree != nil {
		return ErrAlreadyBuilt
	}

	itemList := make([]bvh.BoundedVolume, len(sc.Objects))
	for idx, obj := range sc.Objects {
		itemList[idx] = obj.Primitive
	}
	tree := bvh.Build(itemList, sc.BvhOptions)

	ordered := make([]Object, len(sc.Objects))
	sc.primitives = make([]geometry.Primitive, len(sc.Objects))
	sc.Lights = sc.Lights[:0]
	for pos, index := range tree.Order {
		ordered[pos] = sc.Objects[index]
		sc.primitives[pos] = ordered[pos].Primitive
		if sc.Materials[ordered[pos].Front].EmitsDirectLight() || sc.Materials[ordered[pos].Back].EmitsDirectLight() {
			sc.Lights = append(sc.Lights, pos)
		}
	}
	sc.Objects = ordered
	sc.tree = tree

	sc.logger.Infof(
		"built scene with %d objects (%d lights, %d distant lights) and %d materials",
		len(sc.Objects), len(sc.Lights), len(sc.DistantLights), len(sc.Materials),
	)
	return nil
}

func (sc *Scene) IsBuilt() bool {
	return sc.tree != nil
}

// Find the nearest object hit by the ray.
func (sc *Scene) Intersect(r *ray.Ray, st *bvh.Stack) bool {
	return sc.tree.Intersect(sc.primitives, r, st)
}

// Returns true if no object lies between the ray origin and a target
// located maxDist2 (squared distance) away.
func (sc *Scene) Unobstructed(g geometry.Ray, maxDist2 float64, st *bvh.Stack) bool {
	return sc.tree.Unobstructed(sc.primitives, g, maxDist2, st)
}

// Resolve the material on the hit side of an object. Edge-on hits have no
// material.
func (sc *Scene) MaterialAt(it ray.Interaction) (material.Material, bool) {
	return sc.sideMaterial(sc.Objects[it.ObjectIndex], it.Side)
}

func (sc *Scene) sideMaterial(obj Object, side geometry.Side) (material.Material, bool) {
	switch side {
	case geometry.SideFront:
		return sc.Materials[obj.Front], true
	case geometry.SideBack:
		return sc.Materials[obj.Back], true
	}
	return nil, false
}

// Radiance leaving the light object lightIndex towards the ray origin, if
// the ray hits that object. Returns the squared hit distance.
func (sc *Scene) LightRadianceAlong(lightIndex int, g geometry.Ray) (radiance types.Spectrum, dist2 float64, ok bool) {
	obj := sc.Objects[sc.Lights[lightIndex]]
	hit, found := obj.Primitive.Intersect(g)
	if !found {
		return radiance, 0, false
	}
	m, found := sc.sideMaterial(obj, hit.Side)
	if !found || !m.EmitsDirectLight() {
		return radiance, 0, false
	}
	return m.Colour(), hit.T * hit.T, true
}

// Radiance of a distant light. Sources whose front material does not emit
// are ignored.
func (sc *Scene) DistantLightRadiance(index int) (types.Spectrum, bool) {
	m := sc.Materials[sc.DistantLights[index].Front]
	if !m.EmitsDirectLight() {
		return types.Spectrum{}, false
	}
	return m.Colour(), true
}
