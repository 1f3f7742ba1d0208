package fu

/*
Fnzf returns the first non-zero value or zero if all values are zero
*/
func Fnzf(a ...float64) float64 {
	for _, x := range a {
		if x != 0 {
			return x
		}
	}
	return 0
}

/*
Fnzs returns the first non-empty string
*/
func Fnzs(a ...string) string {
	for _, x := range a {
		if x != "" {
			return x
		}
	}
	return ""
}

func Maxi(a int, b ...int) int {
	for _, x := range b {
		if x > a {
			a = x
		}
	}
	return a
}
