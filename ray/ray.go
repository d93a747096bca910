// Package ray defines the transport ray that is threaded through the BVH,
// the materials and the integrators.
package ray

import (
	"github.com/achilleasa/go-daylight/geometry"
	"github.com/achilleasa/go-daylight/types"
)

// Refraction index of the medium surrounding the scene.
const AirRefractionIndex = 1.0

// The interaction recorded by the last nearest-hit query.
type Interaction struct {
	geometry.Intersection

	// Index of the hit object in the (reordered) scene object list.
	ObjectIndex int
}

type Ray struct {
	Geometry geometry.Ray

	// Refraction index of the medium the ray currently travels through.
	RefractionIndex float64

	// Accumulated path throughput.
	Throughput types.Spectrum

	// Recursion depth.
	Depth int

	Interaction Interaction
}

// Create a primary ray travelling through air with unit throughput.
func New(g geometry.Ray) Ray {
	return Ray{
		Geometry:        g,
		RefractionIndex: AirRefractionIndex,
		Throughput:      types.Gray(1),
	}
}
