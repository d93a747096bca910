package scene

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/achilleasa/go-daylight/bvh"
	"github.com/achilleasa/go-daylight/geometry"
	"github.com/achilleasa/go-daylight/material"
	"github.com/achilleasa/go-daylight/ray"
	"github.com/achilleasa/go-daylight/types"
)

func makeTestScene(t *testing.T) *Scene {
	t.Helper()

	sc := New()
	white := sc.PushMaterial(material.NewPlastic(types.Gray(0.5), 0, 0))
	lamp := sc.PushMaterial(&material.Light{Radiance: types.Gray(100)})
	mirror := sc.PushMaterial(&material.Mirror{Reflectance: types.Gray(0.9)})

	objects := []struct {
		prim        geometry.Primitive
		front, back int
	}{
		{&geometry.Triangle{A: types.Vec3{-5, -5, 0}, B: types.Vec3{5, -5, 0}, C: types.Vec3{5, 5, 0}}, white, white},
		{&geometry.Triangle{A: types.Vec3{-5, -5, 0}, B: types.Vec3{5, 5, 0}, C: types.Vec3{-5, 5, 0}}, white, white},
		{&geometry.Sphere{Centre: types.Vec3{0, 0, 4}, Radius: 0.5}, lamp, lamp},
		{&geometry.Cylinder{Base: types.Vec3{2, 2, 0}, Top: types.Vec3{2, 2, 1}, Radius: 0.25}, mirror, white},
		{&geometry.DistantSource{Direction: types.Vec3{0, 0, 1}, Angle: 0.01}, lamp, lamp},
	}
	for _, obj := range objects {
		if _, err := sc.PushObject(obj.prim, obj.front, obj.back); err != nil {
			t.Fatal(err)
		}
	}
	return sc
}

func TestPushObjectValidation(t *testing.T) {
	sc := New()
	sc.PushMaterial(material.NewPlastic(types.Gray(0.5), 0, 0))

	type spec struct {
		prim        geometry.Primitive
		front, back int
		expErr      error
	}
	specs := []spec{
		{&geometry.Sphere{Radius: 1}, 0, 1, ErrInvalidMaterial},
		{&geometry.Sphere{Radius: 1}, -1, 0, ErrInvalidMaterial},
		{&geometry.Sphere{Radius: 0}, 0, 0, ErrInvalidPrimitive},
		{&geometry.Triangle{}, 0, 0, ErrInvalidPrimitive},
		{&geometry.DistantSource{Direction: types.Vec3{0, 0, 2}, Angle: 0.1}, 0, 0, ErrInvalidPrimitive},
		{&geometry.Sphere{Radius: 1}, 0, 0, nil},
	}

	for index, s := range specs {
		_, err := sc.PushObject(s.prim, s.front, s.back)
		if !errors.Is(err, s.expErr) {
			t.Fatalf("[spec %d] expected error %v; got %v", index, s.expErr, err)
		}
	}
}

func TestBuildReordersObjects(t *testing.T) {
	sc := makeTestScene(t)
	if len(sc.DistantLights) != 1 || len(sc.Objects) != 4 {
		t.Fatalf("expected 4 objects and 1 distant light; got %d and %d", len(sc.Objects), len(sc.DistantLights))
	}

	sc.BvhOptions.TraversalCost = 0.125
	if err := sc.Build(); err != nil {
		t.Fatal(err)
	}
	if err := sc.Build(); !errors.Is(err, ErrAlreadyBuilt) {
		t.Fatalf("expected ErrAlreadyBuilt; got %v", err)
	}
	if _, err := sc.PushObject(&geometry.Sphere{Radius: 1}, 0, 0); !errors.Is(err, ErrAlreadyBuilt) {
		t.Fatalf("expected ErrAlreadyBuilt; got %v", err)
	}

	if len(sc.Lights) != 1 {
		t.Fatalf("expected 1 local light; got %d", len(sc.Lights))
	}
	if kind := sc.Objects[sc.Lights[0]].Primitive.Kind(); kind != "sphere" {
		t.Fatalf("expected light index to point to the sphere after reordering; got %s", kind)
	}

	// looking straight down at the floor from above the lamp
	st := bvh.NewStack()
	r := ray.New(geometry.Ray{Origin: types.Vec3{0, 0, 10}, Direction: types.Vec3{0, 0, -1}})
	if !sc.Intersect(&r, st) {
		t.Fatal("expected ray to hit the scene")
	}
	m, ok := sc.MaterialAt(r.Interaction)
	if !ok || !m.EmitsLight() {
		t.Fatalf("expected the lamp to be hit first; got %v", m)
	}

	r = ray.New(geometry.Ray{Origin: types.Vec3{-1, -1, 10}, Direction: types.Vec3{0, 0, -1}})
	if !sc.Intersect(&r, st) || math.Abs(r.Interaction.T-10) > 1e-9 {
		t.Fatalf("expected floor hit at distance 10; got %+v", r.Interaction)
	}

	radiance, dist2, ok := sc.LightRadianceAlong(0, geometry.Ray{Direction: types.Vec3{0, 0, 1}})
	if !ok || radiance[0] != 100 || dist2 != 3.5*3.5 {
		t.Fatalf("expected lamp radiance 100 at squared distance 12.25; got %v %f %t", radiance, dist2, ok)
	}

	if stats := sc.Stats(); !strings.Contains(stats, "BVH") || !strings.Contains(stats, "sphere") {
		t.Fatalf("expected stats table to list the bvh and the primitives; got\n%s", stats)
	}
}

func TestArchive(t *testing.T) {
	sc := makeTestScene(t)

	var buf bytes.Buffer
	if err := WriteArchive(&buf, sc); err != nil {
		t.Fatal(err)
	}

	loaded, err := ReadArchive(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Objects) != len(sc.Objects) || len(loaded.Materials) != len(sc.Materials) || len(loaded.DistantLights) != len(sc.DistantLights) {
		t.Fatalf("expected loaded scene to match the original layout; got %d objects, %d materials", len(loaded.Objects), len(loaded.Materials))
	}
	if lamp, ok := loaded.Materials[1].(*material.Light); !ok || lamp.Radiance[0] != 100 {
		t.Fatalf("expected second material to be the lamp; got %#v", loaded.Materials[1])
	}
	if err = loaded.Build(); err != nil {
		t.Fatal(err)
	}

	if _, err = ReadArchive(strings.NewReader("not a zip")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat; got %v", err)
	}
}
