package simulator

// Occupancy regimes by hour of day. Business hours track the typical
// headcount with a bounded random variation, transition hours sit in a
// medium band and after-hours covers security, cleaning and stragglers.
// Bands are expressed as fractions of the building's maximum so the model
// scales with topology size.
const (
	businessStartHour = 9
	businessEndHour   = 17
	transitionMorning = 7
	transitionEvening = 19
)

func (s *Simulator) occupancyAt(hour, typical, maxOccupancy int) int {
	if maxOccupancy <= 0 {
		return 0
	}

	var occupancy int
	switch {
	case hour >= businessStartHour && hour <= businessEndHour:
		variation := maxOccupancy / 10
		occupancy = typical + s.intnBetween(-variation, variation)
		if floor := maxOccupancy / 10; occupancy < floor {
			occupancy = floor
		}

	case (hour >= transitionMorning && hour < businessStartHour) ||
		(hour > businessEndHour && hour <= transitionEvening):
		occupancy = s.intnBetween(maxOccupancy/5, maxOccupancy*3/5)

	default:
		occupancy = s.intnBetween(maxOccupancy/50, maxOccupancy*4/25)
	}

	if occupancy < 0 {
		occupancy = 0
	}
	if occupancy > maxOccupancy {
		occupancy = maxOccupancy
	}
	return occupancy
}
