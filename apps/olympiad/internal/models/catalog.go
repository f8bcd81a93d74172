package models

import "olympiad.xdoubleu.com/apps/olympiad/pkg/olymp"

// Catalog lists the scraped sources and the static base calendar.
type Catalog struct {
	News         []olymp.Source `yaml:"news"`
	Calendar     []olymp.Source `yaml:"calendar"`
	BaseCalendar []Record       `yaml:"baseCalendar"`
}
