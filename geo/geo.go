/* Copyright 2026 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package geo provides a flat equirectangular projection for computing
// distances between places.  The projection is recentered once per run
// on the mean latitude of the loaded population, so distances stay
// accurate for study areas a few hundred kilometers across.
package geo

import "math"

// KmPerDegLat is the north-south length of one degree of latitude.
const KmPerDegLat = 111.325

// Projection converts latitude and longitude to kilometer offsets.
// The zero value uses a mid-latitude scale suitable for the
// continental United States.
type Projection struct {
	kmPerDegLon float64
}

// DefaultProjection is centered at the mean latitude of the
// continental US (scale 87.832 km per degree of longitude).
var DefaultProjection = Projection{kmPerDegLon: 87.832}

// NewProjection recenters the projection on the given latitude.
func NewProjection(meanLat float64) Projection {
	return Projection{
		kmPerDegLon: math.Cos(meanLat*math.Pi/180.0) * KmPerDegLat,
	}
}

// XY maps a coordinate pair to kilometer offsets from the origin.
func (p Projection) XY(lat, lon float64) (x, y float64) {
	scale := p.kmPerDegLon
	if scale == 0 {
		scale = DefaultProjection.kmPerDegLon
	}
	return lon * scale, lat * KmPerDegLat
}

// Distance returns the projected distance in kilometers between two
// coordinate pairs.
func (p Projection) Distance(lat1, lon1, lat2, lon2 float64) float64 {
	x1, y1 := p.XY(lat1, lon1)
	x2, y2 := p.XY(lat2, lon2)
	return XYDistance(x1, y1, x2, y2)
}

// XYDistance returns the Euclidean distance between two projected
// points.
func XYDistance(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return math.Sqrt(dx*dx + dy*dy)
}
