package scene

type PrimitiveKind string

const (
	PrimitiveBox      PrimitiveKind = "box"
	PrimitiveSphere   PrimitiveKind = "sphere"
	PrimitivePlane    PrimitiveKind = "plane"
	PrimitiveCylinder PrimitiveKind = "cylinder"
	PrimitiveTorus    PrimitiveKind = "torus"
)

func (k PrimitiveKind) Valid() bool {
	switch k {
	case PrimitiveBox, PrimitiveSphere, PrimitivePlane, PrimitiveCylinder, PrimitiveTorus:
		return true
	}
	return false
}

// PrimitiveDescriptor carries the shape parameters of a procedurally
// generated mesh. Which fields apply depends on Kind:
//
//	box:      Width, Height, Depth, WidthSegments, HeightSegments, DepthSegments
//	sphere:   Radius, WidthSegments, HeightSegments
//	plane:    Width, Height, WidthSegments, HeightSegments
//	cylinder: RadiusTop, RadiusBottom, Height, RadialSegments, HeightSegments
//	torus:    Radius, Tube, RadialSegments, TubularSegments
type PrimitiveDescriptor struct {
	Kind PrimitiveKind `json:"kind"`

	Width        float32 `json:"width"`
	Height       float32 `json:"height"`
	Depth        float32 `json:"depth"`
	Radius       float32 `json:"radius"`
	Tube         float32 `json:"tube"`
	RadiusTop    float32 `json:"radiusTop"`
	RadiusBottom float32 `json:"radiusBottom"`

	WidthSegments   int `json:"widthSegments"`
	HeightSegments  int `json:"heightSegments"`
	DepthSegments   int `json:"depthSegments"`
	RadialSegments  int `json:"radialSegments"`
	TubularSegments int `json:"tubularSegments"`
}

func DefaultPrimitive(kind PrimitiveKind) PrimitiveDescriptor {
	return PrimitiveDescriptor{
		Kind:            kind,
		Width:           1,
		Height:          1,
		Depth:           1,
		Radius:          0.5,
		Tube:            0.2,
		RadiusTop:       0.5,
		RadiusBottom:    0.5,
		WidthSegments:   32,
		HeightSegments:  16,
		DepthSegments:   1,
		RadialSegments:  32,
		TubularSegments: 100,
	}
}
