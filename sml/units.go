package sml

// DLMS unit codes as used in the unit field of SML list entries.
var unitNames = map[uint8]string{
	1:  "a",
	2:  "mo",
	3:  "wk",
	4:  "d",
	5:  "h",
	6:  "min",
	7:  "s",
	8:  "°",
	9:  "°C",
	10: "currency",
	11: "m",
	12: "m/s",
	13: "m³",
	14: "m³",
	15: "m³/h",
	16: "m³/h",
	17: "m³/d",
	18: "m³/d",
	19: "l",
	20: "kg",
	21: "N",
	22: "Nm",
	23: "Pa",
	24: "bar",
	25: "J",
	26: "J/h",
	27: "W",
	28: "VA",
	29: "var",
	30: "Wh",
	31: "VAh",
	32: "varh",
	33: "A",
	34: "C",
	35: "V",
	36: "V/m",
	37: "F",
	38: "Ω",
	39: "Ωm²/m",
	40: "Wb",
	41: "T",
	42: "A/m",
	43: "H",
	44: "Hz",
	56: "%",
}

// UnitName returns the symbol of a DLMS unit code, or an empty string for
// unknown and unset units.
func UnitName(unit uint8) string {
	return unitNames[unit]
}
