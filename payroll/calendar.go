/*
calendar.go - Panama holiday calendar

PURPOSE:
  Static table of national holidays, keyed year -> "MM-DD" -> name, plus the
  premium-day predicate the classifier consults: any Sunday or holiday pays
  a 50% premium on every hour worked.

EXTENDING:
  Adding a year is a data change, not a code change. Movable feasts (Carnaval
  Tuesday, Good Friday) shift per year, so each year carries its own row.
  Years absent from the table simply contribute no holiday matches - the
  Sunday rule still applies.

SEE ALSO:
  - classify.go: Tags each day with IsPremiumDay
  - compensation.go: Pays premium-day hours at 1.50x
*/
package payroll

import (
	"fmt"
	"sort"
)

// panamaHolidays maps year -> "MM-DD" -> holiday name.
var panamaHolidays = map[int]map[string]string{
	2026: {
		"01-01": "Año Nuevo", "01-09": "Día de los Mártires", "02-17": "Martes de Carnaval",
		"04-03": "Viernes Santo", "05-01": "Día del Trabajo", "11-03": "Separación de Panamá de Colombia",
		"11-04": "Día de los Símbolos Patrios", "11-05": "Grito de Colón", "11-10": "Grito de Los Santos",
		"11-28": "Independencia de España", "12-08": "Día de las Madres", "12-20": "Día de los Caídos (Invasión)",
		"12-25": "Navidad",
	},
	2027: {
		"01-01": "Año Nuevo", "01-09": "Día de los Mártires", "02-09": "Martes de Carnaval",
		"03-26": "Viernes Santo", "05-01": "Día del Trabajo", "11-03": "Separación de Panamá de Colombia",
		"11-04": "Día de los Símbolos Patrios", "11-05": "Grito de Colón", "11-10": "Grito de Los Santos",
		"11-28": "Independencia de España", "12-08": "Día de las Madres", "12-20": "Día de los Caídos (Invasión)",
		"12-25": "Navidad",
	},
	2028: {
		"01-01": "Año Nuevo", "01-09": "Día de los Mártires", "02-29": "Martes de Carnaval",
		"04-14": "Viernes Santo", "05-01": "Día del Trabajo", "11-03": "Separación de Panamá de Colombia",
		"11-04": "Día de los Símbolos Patrios", "11-05": "Grito de Colón", "11-10": "Grito de Los Santos",
		"11-28": "Independencia de España", "12-08": "Día de las Madres", "12-20": "Día de los Caídos (Invasión)",
		"12-25": "Navidad",
	},
	2029: {
		"01-01": "Año Nuevo", "01-09": "Día de los Mártires", "02-13": "Martes de Carnaval",
		"03-30": "Viernes Santo", "05-01": "Día del Trabajo", "11-03": "Separación de Panamá de Colombia",
		"11-04": "Día de los Símbolos Patrios", "11-05": "Grito de Colón", "11-10": "Grito de Los Santos",
		"11-28": "Independencia de España", "12-08": "Día de las Madres", "12-20": "Día de los Caídos (Invasión)",
		"12-25": "Navidad",
	},
	2030: {
		"01-01": "Año Nuevo", "01-09": "Día de los Mártires", "03-05": "Martes de Carnaval",
		"04-19": "Viernes Santo", "05-01": "Día del Trabajo", "11-03": "Separación de Panamá de Colombia",
		"11-04": "Día de los Símbolos Patrios", "11-05": "Grito de Colón", "11-10": "Grito de Los Santos",
		"11-28": "Independencia de España", "12-08": "Día de las Madres", "12-20": "Día de los Caídos (Invasión)",
		"12-25": "Navidad",
	},
	2031: {
		"01-01": "Año Nuevo", "01-09": "Día de los Mártires", "02-25": "Martes de Carnaval",
		"04-11": "Viernes Santo", "05-01": "Día del Trabajo", "11-03": "Separación de Panamá de Colombia",
		"11-04": "Día de los Símbolos Patrios", "11-05": "Grito de Colón", "11-10": "Grito de Los Santos",
		"11-28": "Independencia de España", "12-08": "Día de las Madres", "12-20": "Día de los Caídos (Invasión)",
		"12-25": "Navidad",
	},
	2032: {
		"01-01": "Año Nuevo", "01-09": "Día de los Mártires", "02-10": "Martes de Carnaval",
		"03-26": "Viernes Santo", "05-01": "Día del Trabajo", "11-03": "Separación de Panamá de Colombia",
		"11-04": "Día de los Símbolos Patrios", "11-05": "Grito de Colón", "11-10": "Grito de Los Santos",
		"11-28": "Independencia de España", "12-08": "Día de las Madres", "12-20": "Día de los Caídos (Invasión)",
		"12-25": "Navidad",
	},
	2033: {
		"01-01": "Año Nuevo", "01-09": "Día de los Mártires", "03-01": "Martes de Carnaval",
		"04-15": "Viernes Santo", "05-01": "Día del Trabajo", "11-03": "Separación de Panamá de Colombia",
		"11-04": "Día de los Símbolos Patrios", "11-05": "Grito de Colón", "11-10": "Grito de Los Santos",
		"11-28": "Independencia de España", "12-08": "Día de las Madres", "12-20": "Día de los Caídos (Invasión)",
		"12-25": "Navidad",
	},
	2034: {
		"01-01": "Año Nuevo", "01-09": "Día de los Mártires", "02-21": "Martes de Carnaval",
		"04-07": "Viernes Santo", "05-01": "Día del Trabajo", "11-03": "Separación de Panamá de Colombia",
		"11-04": "Día de los Símbolos Patrios", "11-05": "Grito de Colón", "11-10": "Grito de Los Santos",
		"11-28": "Independencia de España", "12-08": "Día de las Madres", "12-20": "Día de los Caídos (Invasión)",
		"12-25": "Navidad",
	},
	2035: {
		"01-01": "Año Nuevo", "01-09": "Día de los Mártires", "02-06": "Martes de Carnaval",
		"03-23": "Viernes Santo", "05-01": "Día del Trabajo", "11-03": "Separación de Panamá de Colombia",
		"11-04": "Día de los Símbolos Patrios", "11-05": "Grito de Colón", "11-10": "Grito de Los Santos",
		"11-28": "Independencia de España", "12-08": "Día de las Madres", "12-20": "Día de los Caídos (Invasión)",
		"12-25": "Navidad",
	},
}

// HolidayName reports whether the date is a national holiday and its name.
func HolidayName(d Date) (string, bool) {
	year, ok := panamaHolidays[d.Year()]
	if !ok {
		return "", false
	}
	name, ok := year[d.MonthDay()]
	return name, ok
}

// IsPremiumDay returns true for Sundays and national holidays. All hours
// worked on a premium day earn the 50% premium and never count as overtime.
func IsPremiumDay(d Date) bool {
	if d.IsSunday() {
		return true
	}
	_, holiday := HolidayName(d)
	return holiday
}

// Holiday is one calendar entry for listings.
type Holiday struct {
	Date Date
	Name string
}

// HolidaysForYear returns the year's holidays in date order. Years outside
// the table return nil.
func HolidaysForYear(year int) []Holiday {
	table, ok := panamaHolidays[year]
	if !ok {
		return nil
	}

	days := make([]string, 0, len(table))
	for md := range table {
		days = append(days, md)
	}
	sort.Strings(days)

	holidays := make([]Holiday, 0, len(days))
	for _, md := range days {
		d, err := ParseDate(fmt.Sprintf("%d-%s", year, md))
		if err != nil {
			continue
		}
		holidays = append(holidays, Holiday{Date: d, Name: table[md]})
	}
	return holidays
}
