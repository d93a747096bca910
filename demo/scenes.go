package demo

import (
	"math"

	"github.com/achilleasa/go-daylight/camera"
	"github.com/achilleasa/go-daylight/geometry"
	"github.com/achilleasa/go-daylight/material"
	"github.com/achilleasa/go-daylight/scene"
	"github.com/achilleasa/go-daylight/types"
)

func init() {
	register(Demo{
		Name:        "plane",
		Description: "grey diffuse plane lit by the sun",
		Scene: func() (*scene.Scene, error) {
			return SunlitPlane(0.5, SunDirection(45, 30), 1e5)
		},
		Camera: func(w, h int) (*camera.Pinhole, error) {
			return camera.NewPinhole(types.Vec3{0, -6, 3}, types.Vec3{0, 6, -3}, types.Vec3{0, 0, 1}, 60, w, h)
		},
		Sensors: func() []geometry.Ray {
			return sensorGrid(-5, -5, 5, 5, 0.01, 4, 4)
		},
	})
	register(Demo{
		Name:        "cornell",
		Description: "box with an open front, a ceiling light and mirror, glass and metal objects",
		Scene:       CornellBox,
		Camera: func(w, h int) (*camera.Pinhole, error) {
			return camera.NewPinhole(types.Vec3{0, -3.9, 1}, types.Vec3{0, 1, 0}, types.Vec3{0, 0, 1}, 35, w, h)
		},
		Sensors: func() []geometry.Ray {
			return sensorGrid(-0.9, -0.9, 0.9, 0.9, 0.01, 3, 3)
		},
	})
	register(Demo{
		Name:        "room",
		Description: "room with a glazed window opening to the sky",
		Scene:       WindowRoom,
		Camera: func(w, h int) (*camera.Pinhole, error) {
			return camera.NewPinhole(types.Vec3{0, -2.8, 1.5}, types.Vec3{0, 1, -0.3}, types.Vec3{0, 0, 1}, 75, w, h)
		},
		Sensors: func() []geometry.Ray {
			return sensorGrid(-1.8, -2.8, 1.8, 2.8, 0.8, 3, 5)
		},
	})
}

// Unit direction towards the sun for the given altitude and azimuth
// (degrees, azimuth measured from north towards east).
func SunDirection(altitude, azimuth float64) types.Vec3 {
	alt := altitude * math.Pi / 180
	az := azimuth * math.Pi / 180
	return types.Vec3{math.Cos(alt) * math.Sin(az), math.Cos(alt) * math.Cos(az), math.Sin(alt)}
}

// A large Lambertian plane at z = 0 lit by a single distant source with the
// given radiance.
func SunlitPlane(albedo float64, sunDir types.Vec3, sunRadiance float64) (*scene.Scene, error) {
	sc := scene.New()
	grey := sc.PushMaterial(material.NewPlastic(types.Gray(albedo), 0, 0))
	sun := sc.PushMaterial(&material.Light{Radiance: types.Gray(sunRadiance)})

	const size = 1000
	err := pushQuad(sc,
		types.Vec3{-size, -size, 0}, types.Vec3{size, -size, 0},
		types.Vec3{size, size, 0}, types.Vec3{-size, size, 0},
		grey, grey,
	)
	if err != nil {
		return nil, err
	}
	if _, err = sc.PushObject(&geometry.DistantSource{Direction: sunDir.Normalize(), Angle: SunAngle}, sun, sun); err != nil {
		return nil, err
	}
	return sc, nil
}

// A 2x2x2 box centred on the z axis with its floor at z = 0 and no front
// (y = -1) wall. The interior faces are the front sides.
func CornellBox() (*scene.Scene, error) {
	sc := scene.New()
	white := sc.PushMaterial(material.NewPlastic(types.Gray(0.7), 0.02, 0.05))
	red := sc.PushMaterial(material.NewPlastic(types.Spectrum{0.63, 0.06, 0.04}, 0, 0))
	green := sc.PushMaterial(material.NewPlastic(types.Spectrum{0.15, 0.48, 0.09}, 0, 0))
	mirror := sc.PushMaterial(&material.Mirror{Reflectance: types.Gray(0.9)})
	glass := sc.PushMaterial(&material.Dielectric{Transmittance: types.Gray(0.95), RefractionIndex: 1.52})
	metal := sc.PushMaterial(material.NewMetal(types.Spectrum{0.9, 0.7, 0.3}, 0.8, 0.1))
	light := sc.PushMaterial(&material.Light{Radiance: types.Gray(15)})

	v := func(x, y, z float64) types.Vec3 { return types.Vec3{x, y, z} }
	quads := []struct {
		a, b, c, d types.Vec3
		mat        int
	}{
		{v(-1, -1, 0), v(1, -1, 0), v(1, 1, 0), v(-1, 1, 0), white},
		{v(-1, -1, 2), v(-1, 1, 2), v(1, 1, 2), v(1, -1, 2), white},
		{v(-1, 1, 0), v(1, 1, 0), v(1, 1, 2), v(-1, 1, 2), white},
		{v(-1, -1, 0), v(-1, 1, 0), v(-1, 1, 2), v(-1, -1, 2), red},
		{v(1, -1, 0), v(1, -1, 2), v(1, 1, 2), v(1, 1, 0), green},
	}
	for _, q := range quads {
		if err := pushQuad(sc, q.a, q.b, q.c, q.d, q.mat, q.mat); err != nil {
			return nil, err
		}
	}

	// ceiling light facing down
	err := pushQuad(sc, v(-0.3, -0.3, 1.99), v(-0.3, 0.3, 1.99), v(0.3, 0.3, 1.99), v(0.3, -0.3, 1.99), light, white)
	if err != nil {
		return nil, err
	}

	prims := []struct {
		prim geometry.Primitive
		mat  int
	}{
		{&geometry.Sphere{Centre: v(-0.45, 0.3, 0.35), Radius: 0.35}, mirror},
		{&geometry.Sphere{Centre: v(0.45, -0.2, 0.35), Radius: 0.35}, glass},
		{&geometry.Cylinder{Base: v(0.5, 0.6, 0), Top: v(0.5, 0.6, 0.9), Radius: 0.15}, metal},
	}
	for _, p := range prims {
		if _, err = sc.PushObject(p.prim, p.mat, p.mat); err != nil {
			return nil, err
		}
	}
	return sc, nil
}

// A 4x6x3 room with a glazed opening in the south wall and a sun.
func WindowRoom() (*scene.Scene, error) {
	sc := scene.New()
	wall := sc.PushMaterial(material.NewPlastic(types.Gray(0.5), 0, 0))
	floor := sc.PushMaterial(material.NewPlastic(types.Gray(0.2), 0, 0))
	ceiling := sc.PushMaterial(material.NewPlastic(types.Gray(0.8), 0, 0))
	outside := sc.PushMaterial(material.NewPlastic(types.Gray(0.3), 0, 0))
	glazing := sc.PushMaterial(&material.Glass{Transmittance: types.Gray(0.86), RefractionIndex: 1.52})
	sun := sc.PushMaterial(&material.Light{Radiance: types.Gray(1e5)})

	const (
		hw, hd, h   = 2.0, 3.0, 3.0
		winW, winZ0 = 1.2, 0.9
		winZ1       = 2.1
	)
	v := func(x, y, z float64) types.Vec3 { return types.Vec3{x, y, z} }

	// interior faces are the front sides
	quads := []struct {
		a, b, c, d types.Vec3
		mat        int
	}{
		{v(-hw, -hd, 0), v(hw, -hd, 0), v(hw, hd, 0), v(-hw, hd, 0), floor},
		{v(-hw, -hd, h), v(-hw, hd, h), v(hw, hd, h), v(hw, -hd, h), ceiling},
		{v(-hw, hd, 0), v(hw, hd, 0), v(hw, hd, h), v(-hw, hd, h), wall},
		{v(-hw, -hd, 0), v(-hw, hd, 0), v(-hw, hd, h), v(-hw, -hd, h), wall},
		{v(hw, -hd, 0), v(hw, -hd, h), v(hw, hd, h), v(hw, hd, 0), wall},

		// south wall around the window
		{v(-hw, -hd, 0), v(-hw, -hd, h), v(-winW, -hd, h), v(-winW, -hd, 0), wall},
		{v(winW, -hd, 0), v(winW, -hd, h), v(hw, -hd, h), v(hw, -hd, 0), wall},
		{v(-winW, -hd, 0), v(-winW, -hd, winZ0), v(winW, -hd, winZ0), v(winW, -hd, 0), wall},
		{v(-winW, -hd, winZ1), v(-winW, -hd, h), v(winW, -hd, h), v(winW, -hd, winZ1), wall},
	}
	for _, q := range quads {
		if err := pushQuad(sc, q.a, q.b, q.c, q.d, q.mat, outside); err != nil {
			return nil, err
		}
	}

	err := pushQuad(sc, v(-winW, -hd, winZ0), v(-winW, -hd, winZ1), v(winW, -hd, winZ1), v(winW, -hd, winZ0), glazing, glazing)
	if err != nil {
		return nil, err
	}

	if _, err = sc.PushObject(&geometry.DistantSource{Direction: SunDirection(35, 190), Angle: SunAngle}, sun, sun); err != nil {
		return nil, err
	}
	return sc, nil
}
