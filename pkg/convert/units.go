package convert

// Conversion factors between the imperial units used in the source
// shapefiles and the SI units the network model is stored in. The divisors
// match the factors EPANET itself uses internally, hence the precision.
const (
	feetPerMeterElevation = 3.280839895054167
	feetPerMeterLength    = 3.280839895032449
	inchesPerMeter        = 39.37007874
	gpmPerCubicMeterSec   = 15850.32314147994
)
