package upapi

import (
	"context"
	"net/url"
)

// Pager is a stateful cursor over a paginated listing. The only state it
// carries between fetches is the next URL; construction-time query params
// apply to the first request only, after which the server-supplied links.next
// URL is followed verbatim.
//
// A Pager is single-use and not safe for concurrent use. Any fetch failure
// terminates the remaining pagination; pages already yielded stand.
type Pager struct {
	client  *Client
	next    string
	params  url.Values
	fetched bool
	done    bool
}

func newPager(client *Client, startURL string, params url.Values) *Pager {
	return &Pager{
		client: client,
		next:   startURL,
		params: params,
	}
}

// HasNext reports whether another page remains to be fetched.
func (p *Pager) HasNext() bool {
	return !p.done
}

// Next fetches the next page. On failure it returns an *apperrors.FetchError
// and the pager is exhausted.
func (p *Pager) Next(ctx context.Context) (*Page, error) {
	var params url.Values
	if !p.fetched {
		params = p.params
	}

	page, err := p.client.getPage(ctx, p.next, params)
	p.fetched = true
	if err != nil {
		p.done = true
		return nil, err
	}

	if page.Links.Next != nil && *page.Links.Next != "" {
		p.next = *page.Links.Next
	} else {
		p.done = true
	}
	return page, nil
}
