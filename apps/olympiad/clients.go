package olympiad

import "olympiad.xdoubleu.com/apps/olympiad/pkg/olymp"

type Clients struct {
	Olymp olymp.Client
}
