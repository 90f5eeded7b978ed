package permits

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const (
	accelaURL         = "https://aca-prod.accela.com/LEECO/Cap/CapHome.aspx?module=Permitting&TabName=Home"
	accelaStartField  = "#ctl00_PlaceHolderMain_generalSearchForm_txtGSStartDate"
	accelaEndField    = "#ctl00_PlaceHolderMain_generalSearchForm_txtGSEndDate"
	accelaSearchBtn   = "#ctl00_PlaceHolderMain_btnNewSearch"
	accelaResultsGrid = ".ACA_Grid_OverFlow"

	cityViewSearchURL = "https://cvportal.colliercountyfl.gov/CityViewWeb/Permit/Search"

	portalDateFormat = "01/02/2006"
)

var browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// browserSession holds a headless Chrome tab shared by the portal
// methods for the life of one scrape.
type browserSession struct {
	ctx     context.Context
	cancels []context.CancelFunc
}

func newBrowserSession(parent context.Context) *browserSession {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(browserUserAgent),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	return &browserSession{
		ctx:     tabCtx,
		cancels: []context.CancelFunc{cancelTab, cancelAlloc},
	}
}

func (b *browserSession) run(timeout time.Duration, actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(b.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

func (b *browserSession) pageSource() (string, error) {
	var html string
	if err := b.run(30*time.Second, chromedp.OuterHTML("html", &html)); err != nil {
		return "", eris.Wrap(err, "permits: read page source")
	}
	return html, nil
}

// clickIfPresent clicks the first element matching selector. Returns
// false without error when no element matches.
func (b *browserSession) clickIfPresent(selector string) (bool, error) {
	var clicked bool
	script := `(function() {
		var el = document.querySelector(` + "`" + selector + "`" + `);
		if (!el) { return false; }
		el.click();
		return true;
	})()`
	if err := b.run(30*time.Second, chromedp.Evaluate(script, &clicked)); err != nil {
		return false, eris.Wrap(err, "permits: click next page")
	}
	return clicked, nil
}

func (b *browserSession) close() error {
	for _, cancel := range b.cancels {
		cancel()
	}
	return nil
}

// AccelaPortal drives the Lee County Accela Citizen Access portal.
type AccelaPortal struct {
	session *browserSession
}

// NewAccelaPortal starts a headless browser session for Lee County.
func NewAccelaPortal(ctx context.Context) *AccelaPortal {
	return &AccelaPortal{session: newBrowserSession(ctx)}
}

func (p *AccelaPortal) Search(_ context.Context, start, end time.Time) error {
	zap.L().Info("navigating to Lee County Accela portal")
	err := p.session.run(90*time.Second,
		chromedp.Navigate(accelaURL),
		chromedp.WaitVisible(accelaStartField),
		// ASP.NET ViewState needs a beat after first paint.
		chromedp.Sleep(2*time.Second),
		chromedp.SetValue(accelaStartField, start.Format(portalDateFormat)),
		chromedp.SetValue(accelaEndField, end.Format(portalDateFormat)),
		chromedp.Click(accelaSearchBtn),
		chromedp.WaitVisible(accelaResultsGrid),
		chromedp.Sleep(2*time.Second),
	)
	if err != nil {
		return eris.Wrap(err, "permits: accela search")
	}
	return nil
}

func (p *AccelaPortal) PageSource(context.Context) (string, error) {
	return p.session.pageSource()
}

func (p *AccelaPortal) NextPage(context.Context) (bool, error) {
	// Accela renders Prev and Next with the same class; pick by label.
	script := `(function() {
		var links = document.querySelectorAll("a[class*='aca_pagination_PrevNext']");
		for (var i = 0; i < links.length; i++) {
			if (links[i].textContent.indexOf('Next') !== -1) {
				links[i].click();
				return true;
			}
		}
		return false;
	})()`
	var clicked bool
	err := p.session.run(30*time.Second, chromedp.Evaluate(script, &clicked))
	if err != nil {
		return false, eris.Wrap(err, "permits: click next page")
	}
	if !clicked {
		return false, nil
	}
	if err := p.session.run(30*time.Second, chromedp.Sleep(3*time.Second)); err != nil {
		return false, eris.Wrap(err, "permits: wait after page change")
	}
	return true, nil
}

func (p *AccelaPortal) Close() error {
	return p.session.close()
}

// CityViewPortal drives the Collier County CityView portal. CityView
// deployments vary, so field discovery is looser than Accela's fixed
// control IDs.
type CityViewPortal struct {
	session *browserSession
}

// NewCityViewPortal starts a headless browser session for Collier County.
func NewCityViewPortal(ctx context.Context) *CityViewPortal {
	return &CityViewPortal{session: newBrowserSession(ctx)}
}

func (p *CityViewPortal) Search(_ context.Context, start, end time.Time) error {
	zap.L().Info("navigating to Collier County CityView portal")

	fillScript := `(function() {
		var dates = document.querySelectorAll("input[type='date'], input[type='text'][name*='date' i]");
		if (dates.length >= 2) {
			dates[0].value = '` + start.Format(portalDateFormat) + `';
			dates[1].value = '` + end.Format(portalDateFormat) + `';
		}
		var btn = document.querySelector("button[type='submit'], input[type='submit'], button.btn-primary");
		if (btn) { btn.click(); return true; }
		return false;
	})()`

	var submitted bool
	err := p.session.run(90*time.Second,
		chromedp.Navigate(cityViewSearchURL),
		chromedp.WaitVisible("form", chromedp.ByQuery),
		chromedp.Sleep(3*time.Second),
		chromedp.Evaluate(fillScript, &submitted),
		chromedp.Sleep(5*time.Second),
	)
	if err != nil {
		return eris.Wrap(err, "permits: cityview search")
	}
	if !submitted {
		zap.L().Warn("cityview search form not found, parsing landing page as-is")
	}
	return nil
}

func (p *CityViewPortal) PageSource(context.Context) (string, error) {
	return p.session.pageSource()
}

func (p *CityViewPortal) NextPage(context.Context) (bool, error) {
	clicked, err := p.session.clickIfPresent(`a.next, li.next a, a[aria-label='Next']`)
	if err != nil || !clicked {
		return false, err
	}
	if err := p.session.run(30*time.Second, chromedp.Sleep(3*time.Second)); err != nil {
		return false, eris.Wrap(err, "permits: wait after page change")
	}
	return true, nil
}

func (p *CityViewPortal) Close() error {
	return p.session.close()
}
