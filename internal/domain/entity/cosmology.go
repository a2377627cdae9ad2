package entity

import "math"

// Flat Lambda-CDM parameters (Planck 2015), used for luminosity distances
// derived from redshift.
const (
	hubbleConstant = 67.74   // km/s/Mpc
	omegaMatter    = 0.3089

	// speedOfLight is in km/s to match hubbleConstant's units.
	speedOfLight = 299792.458
)

// VelocityFromRedshift converts a redshift to a recession velocity in km/s
// using the relativistic Doppler relation.
func VelocityFromRedshift(z float64) float64 {
	zp := (z + 1) * (z + 1)
	return speedOfLight * (zp - 1) / (zp + 1)
}

// RedshiftFromVelocity inverts VelocityFromRedshift. v is in km/s and must
// be below the speed of light.
func RedshiftFromVelocity(v float64) float64 {
	beta := v / speedOfLight
	return math.Sqrt((1+beta)/(1-beta)) - 1
}

// LuminosityDistanceMpc returns the luminosity distance in megaparsecs for
// the given redshift, integrating the flat Lambda-CDM expansion history with
// Simpson's rule.
func LuminosityDistanceMpc(z float64) float64 {
	if z <= 0 {
		return 0
	}
	const steps = 1000 // must be even
	h := z / steps
	sum := invE(0) + invE(z)
	for i := 1; i < steps; i++ {
		x := float64(i) * h
		if i%2 == 1 {
			sum += 4 * invE(x)
		} else {
			sum += 2 * invE(x)
		}
	}
	comoving := speedOfLight / hubbleConstant * sum * h / 3
	return (1 + z) * comoving
}

// invE is the reciprocal of the dimensionless Hubble parameter E(z) for a
// flat universe.
func invE(z float64) float64 {
	omegaLambda := 1 - omegaMatter
	return 1 / math.Sqrt(omegaMatter*math.Pow(1+z, 3)+omegaLambda)
}

// AbsoluteMagnitude converts an apparent magnitude at the given luminosity
// distance (in Mpc) to an absolute magnitude.
func AbsoluteMagnitude(apparent, distMpc float64) float64 {
	return apparent - 5*(math.Log10(distMpc*1e6)-1)
}
