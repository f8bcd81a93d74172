package olymp

import "context"

type Client interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}
