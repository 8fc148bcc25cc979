package glide

// Filter selects units for the Engine group operations.
type Filter func(a Animatable) bool

// All matches every unit.
func All() Filter { return func(Animatable) bool { return true } }

// ByID matches units whose ID equals id.
func ByID(id string) Filter {
	return func(a Animatable) bool { return a.unitBase().ID == id }
}

// ByIntID matches units whose IntID equals id.
func ByIntID(id int) Filter {
	return func(a Animatable) bool { return a.unitBase().IntID == id }
}

// ByTarget matches tweens animating target and sequences containing one.
func ByTarget(target any) Filter {
	return func(a Animatable) bool { return containsTarget(a, target) }
}

// ByInstance matches exactly the given units.
func ByInstance(units ...Animatable) Filter {
	return func(a Animatable) bool {
		for _, u := range units {
			if u != nil && u.unitBase() == a.unitBase() {
				return true
			}
		}
		return false
	}
}
