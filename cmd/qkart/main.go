package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Dhwanith/qkart/internal/address"
	"github.com/Dhwanith/qkart/internal/api"
	"github.com/Dhwanith/qkart/internal/auth"
	"github.com/Dhwanith/qkart/internal/cart"
	"github.com/Dhwanith/qkart/internal/catalog"
	"github.com/Dhwanith/qkart/internal/checkout"
	"github.com/Dhwanith/qkart/internal/config"
	"github.com/Dhwanith/qkart/internal/search"
	"github.com/Dhwanith/qkart/internal/session"
	"github.com/Dhwanith/qkart/pkg/logging"
	"github.com/Dhwanith/qkart/pkg/metrics"
)

const (
	msgCartUnreachable    = "Could not fetch cart details. Check that the backend is running, reachable and returns valid JSON."
	msgBackendUnreachable = "Something went wrong. Check that the backend is running, reachable and returns valid JSON."
	msgLoginToAdd         = "Login to add an item to the Cart."
	msgAlreadyInCart      = "Item already in cart. Use the cart sidebar to update quantity or remove item."
)

type page int

const (
	pageLogin page = iota
	pageRegister
	pageProducts
	pageCheckout
	pageConfirm
)

type pane int

const (
	paneGrid pane = iota
	paneCart
	paneSearch
)

type model struct {
	cfg   config.Config
	log   *zap.Logger
	gw    *api.Client
	src   *catalog.Source
	book  *address.Book
	orch  *checkout.Orchestrator
	coord *search.Coordinator

	page page
	sess *session.Session

	// auth forms
	username string
	password string
	confirm  string
	field    int

	// products view
	searchText string
	focus      pane
	products   []catalog.Product
	// index is built from the full catalog snapshot and is what the cart
	// joins against; search results only change the visible grid.
	index catalog.Index
	lines      []api.CartLine
	cursor     int
	cartCursor int
	loading    bool

	// checkout view
	addrCursor int
	newAddress string
	addingAddr bool
	orderTotal decimal.Decimal

	busy   bool
	notice string
}

func newModel(cfg config.Config, log *zap.Logger, gw *api.Client, src *catalog.Source) model {
	return model{
		cfg:  cfg,
		log:  log,
		gw:   gw,
		src:  src,
		book: address.NewBook(gw, log),
		orch: checkout.NewOrchestrator(gw, log),
		page: pageLogin,
	}
}

func (m model) items() []cart.Item {
	return cart.Materialize(m.lines, m.index)
}

// --- messages ---

type storefrontMsg struct {
	products []catalog.Product
	lines    []api.CartLine
	cartErr  error
}

type searchResultMsg search.Result

type cartMsg struct {
	lines []api.CartLine
	err   error
}

type loginMsg struct {
	res api.LoginResult
	err error
}

type registerMsg struct{ err error }

type addressBookMsg struct{ err error }

type checkoutMsg struct {
	total decimal.Decimal
	err   error
}

// --- commands ---

func (m model) fetchStorefrontCmd() tea.Cmd {
	gw, src, sess := m.gw, m.src, m.sess
	return func() tea.Msg {
		ctx := context.Background()
		products := src.FetchAll(ctx)
		var lines []api.CartLine
		var cartErr error
		if sess.LoggedIn() {
			lines, cartErr = gw.Cart(ctx, sess.Token())
		}
		return storefrontMsg{products: products, lines: lines, cartErr: cartErr}
	}
}

func (m model) upsertCartCmd(productID string, qty int) tea.Cmd {
	gw, token := m.gw, m.sess.Token()
	return func() tea.Msg {
		lines, err := gw.UpsertCartLine(context.Background(), token, productID, qty)
		return cartMsg{lines: lines, err: err}
	}
}

func (m model) loginCmd(username, password string) tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		res, err := gw.Login(context.Background(), username, password)
		return loginMsg{res: res, err: err}
	}
}

func (m model) registerCmd(username, password string) tea.Cmd {
	gw := m.gw
	return func() tea.Msg {
		return registerMsg{err: gw.Register(context.Background(), username, password)}
	}
}

func (m model) refreshAddressesCmd() tea.Cmd {
	book, token := m.book, m.sess.Token()
	return func() tea.Msg {
		return addressBookMsg{err: book.Refresh(context.Background(), token)}
	}
}

func (m model) addAddressCmd(text string) tea.Cmd {
	book, token := m.book, m.sess.Token()
	return func() tea.Msg {
		return addressBookMsg{err: book.Add(context.Background(), token, text)}
	}
}

func (m model) removeAddressCmd(id string) tea.Cmd {
	book, token := m.book, m.sess.Token()
	return func() tea.Msg {
		return addressBookMsg{err: book.Remove(context.Background(), token, id)}
	}
}

func (m model) placeOrderCmd() tea.Cmd {
	orch, sess, items, addressID := m.orch, m.sess, m.items(), m.book.SelectedID()
	return func() tea.Msg {
		total, err := orch.PlaceOrder(context.Background(), sess, items, addressID)
		return checkoutMsg{total: total, err: err}
	}
}

// --- update ---

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.coordStop()
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		switch m.page {
		case pageLogin:
			return m.updateLogin(msg)
		case pageRegister:
			return m.updateRegister(msg)
		case pageProducts:
			return m.updateProducts(msg)
		case pageCheckout:
			return m.updateCheckout(msg)
		case pageConfirm:
			return m.updateConfirm(msg)
		}

	case storefrontMsg:
		m.loading = false
		m.products = msg.products
		m.index = catalog.NewIndex(msg.products)
		if msg.cartErr != nil {
			m.notice = surface(msg.cartErr, msgCartUnreachable)
		} else {
			m.lines = msg.lines
		}
		m.clampCursors()
		return m, nil

	case searchResultMsg:
		m.products = msg.Products
		m.clampCursors()
		return m, nil

	case cartMsg:
		m.busy = false
		if msg.err != nil {
			m.notice = surface(msg.err, msgCartUnreachable)
			return m, nil
		}
		m.lines = msg.lines
		m.clampCursors()
		return m, nil

	case loginMsg:
		m.busy = false
		if msg.err != nil {
			m.notice = surface(msg.err, msgBackendUnreachable)
			return m, nil
		}
		m.sess = session.New(msg.res.Token, msg.res.Username, msg.res.Balance)
		m.notice = "Logged in successfully"
		m.page = pageProducts
		m.loading = true
		m.password = ""
		return m, m.fetchStorefrontCmd()

	case registerMsg:
		m.busy = false
		if msg.err != nil {
			m.notice = surface(msg.err, msgBackendUnreachable)
			return m, nil
		}
		m.notice = "Registered successfully"
		m.page = pageLogin
		m.password = ""
		m.confirm = ""
		m.field = 0
		return m, nil

	case addressBookMsg:
		m.busy = false
		if msg.err != nil {
			m.notice = surface(msg.err, msgBackendUnreachable)
		}
		m.clampCursors()
		return m, nil

	case checkoutMsg:
		m.busy = false
		if msg.err != nil {
			m.notice = surface(msg.err, checkout.ErrPaymentFailed.Error())
			return m, nil
		}
		m.orderTotal = msg.total
		m.lines = nil
		m.page = pageConfirm
		m.notice = ""
		return m, nil
	}
	return m, nil
}

func (m model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.field = (m.field + 1) % 2
	case "shift+tab", "up":
		m.field = (m.field + 1) % 2
	case "ctrl+r":
		m.page = pageRegister
		m.field = 0
		m.notice = ""
	case "enter":
		if err := auth.ValidateLogin(m.username, m.password); err != nil {
			m.notice = err.Error()
			return m, nil
		}
		m.busy = true
		m.notice = ""
		return m, m.loginCmd(m.username, m.password)
	default:
		fields := []*string{&m.username, &m.password}
		editField(fields[m.field], msg)
	}
	return m, nil
}

func (m model) updateRegister(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.field = (m.field + 1) % 3
	case "shift+tab", "up":
		m.field = (m.field + 2) % 3
	case "esc":
		m.page = pageLogin
		m.field = 0
		m.notice = ""
	case "enter":
		if err := auth.ValidateRegistration(m.username, m.password, m.confirm); err != nil {
			m.notice = err.Error()
			return m, nil
		}
		m.busy = true
		m.notice = ""
		return m, m.registerCmd(m.username, m.password)
	default:
		fields := []*string{&m.username, &m.password, &m.confirm}
		editField(fields[m.field], msg)
	}
	return m, nil
}

func (m model) updateProducts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.focus == paneSearch {
		switch msg.String() {
		case "esc", "enter":
			m.focus = paneGrid
		default:
			if editField(&m.searchText, msg) {
				m.coord.Input(m.searchText)
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		m.coordStop()
		return m, tea.Quit
	case "/":
		m.focus = paneSearch
		m.notice = ""
	case "tab":
		if m.focus == paneGrid {
			m.focus = paneCart
		} else {
			m.focus = paneGrid
		}
	case "up":
		m.moveCursor(-1)
	case "down":
		m.moveCursor(1)
	case "enter", "a":
		return m.addFromGrid()
	case "+":
		return m.bumpCartLine(1)
	case "-":
		return m.bumpCartLine(-1)
	case "c":
		if !m.sess.LoggedIn() {
			m.notice = msgLoginToAdd
			return m, nil
		}
		if len(m.items()) == 0 {
			m.notice = "Cart is empty. Add more items to the cart to checkout."
			return m, nil
		}
		m.page = pageCheckout
		m.addingAddr = false
		m.notice = ""
		m.busy = true
		return m, m.refreshAddressesCmd()
	case "ctrl+l":
		return m.logout()
	}
	return m, nil
}

func (m model) updateCheckout(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.addingAddr {
		switch msg.String() {
		case "esc":
			m.addingAddr = false
			m.newAddress = ""
		case "enter":
			text := strings.TrimSpace(m.newAddress)
			if text == "" {
				m.notice = "Address cannot be empty"
				return m, nil
			}
			m.addingAddr = false
			m.newAddress = ""
			m.busy = true
			return m, m.addAddressCmd(text)
		default:
			editField(&m.newAddress, msg)
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.page = pageProducts
		m.notice = ""
	case "up":
		if m.addrCursor > 0 {
			m.addrCursor--
		}
	case "down":
		if m.addrCursor < len(m.book.Addresses())-1 {
			m.addrCursor++
		}
	case "enter":
		if addrs := m.book.Addresses(); m.addrCursor < len(addrs) {
			m.book.Select(addrs[m.addrCursor].ID)
			m.notice = ""
		}
	case "n":
		m.addingAddr = true
		m.notice = ""
	case "d":
		if addrs := m.book.Addresses(); m.addrCursor < len(addrs) {
			m.busy = true
			return m, m.removeAddressCmd(addrs[m.addrCursor].ID)
		}
	case "p":
		if err := checkout.Validate(m.items(), m.book, m.sess.Balance()); err != nil {
			m.notice = err.Error()
			return m, nil
		}
		m.busy = true
		m.notice = ""
		return m, m.placeOrderCmd()
	}
	return m, nil
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.page = pageProducts
		m.loading = true
		return m, m.fetchStorefrontCmd()
	case "q":
		m.coordStop()
		return m, tea.Quit
	}
	return m, nil
}

func (m model) addFromGrid() (tea.Model, tea.Cmd) {
	if m.focus != paneGrid || m.cursor >= len(m.products) {
		return m, nil
	}
	if !m.sess.LoggedIn() {
		m.notice = msgLoginToAdd
		return m, nil
	}
	p := m.products[m.cursor]
	if cart.InCart(m.lines, p.ID) {
		m.notice = msgAlreadyInCart
		return m, nil
	}
	m.busy = true
	m.notice = ""
	return m, m.upsertCartCmd(p.ID, 1)
}

func (m model) bumpCartLine(delta int) (tea.Model, tea.Cmd) {
	if m.focus != paneCart {
		return m, nil
	}
	items := m.items()
	if m.cartCursor >= len(items) {
		return m, nil
	}
	it := items[m.cartCursor]
	m.busy = true
	m.notice = ""
	return m, m.upsertCartCmd(it.Product.ID, it.Qty+delta)
}

func (m model) logout() (tea.Model, tea.Cmd) {
	m.sess = nil
	m.lines = nil
	m.book = address.NewBook(m.gw, m.log)
	m.page = pageLogin
	m.username = ""
	m.password = ""
	m.field = 0
	m.notice = ""
	return m, nil
}

func (m *model) moveCursor(delta int) {
	if m.focus == paneCart {
		m.cartCursor += delta
	} else {
		m.cursor += delta
	}
	m.clampCursors()
}

func (m *model) clampCursors() {
	m.cursor = clamp(m.cursor, len(m.products))
	m.cartCursor = clamp(m.cartCursor, len(m.items()))
	m.addrCursor = clamp(m.addrCursor, len(m.book.Addresses()))
}

func (m model) coordStop() {
	if m.coord != nil {
		m.coord.Stop()
	}
}

func clamp(v, n int) int {
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}

// editField applies a keystroke to a text field. Returns true when the
// field changed.
func editField(field *string, msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyBackspace:
		if *field == "" {
			return false
		}
		r := []rune(*field)
		*field = string(r[:len(r)-1])
		return true
	case tea.KeySpace:
		*field += " "
		return true
	case tea.KeyRunes:
		*field += string(msg.Runes)
		return true
	}
	return false
}

// --- view ---

func (m model) View() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, "QKart")
	fmt.Fprintln(b, "")

	switch m.page {
	case pageLogin:
		m.viewLogin(b)
	case pageRegister:
		m.viewRegister(b)
	case pageProducts:
		m.viewProducts(b)
	case pageCheckout:
		m.viewCheckout(b)
	case pageConfirm:
		m.viewConfirm(b)
	}

	if m.busy {
		fmt.Fprintln(b, "\nWorking...")
	}
	if m.notice != "" {
		fmt.Fprintf(b, "\n%s\n", m.notice)
	}
	return b.String()
}

func (m model) viewLogin(b *strings.Builder) {
	fmt.Fprintln(b, "Login")
	fmt.Fprintf(b, " %s Username: %s\n", marker(m.field == 0), m.username)
	fmt.Fprintf(b, " %s Password: %s\n", marker(m.field == 1), strings.Repeat("*", len(m.password)))
	fmt.Fprintln(b, "\ntab: next field | enter: login | ctrl+r: register | ctrl+c: quit")
}

func (m model) viewRegister(b *strings.Builder) {
	fmt.Fprintln(b, "Register")
	fmt.Fprintf(b, " %s Username: %s\n", marker(m.field == 0), m.username)
	fmt.Fprintf(b, " %s Password: %s\n", marker(m.field == 1), strings.Repeat("*", len(m.password)))
	fmt.Fprintf(b, " %s Confirm:  %s\n", marker(m.field == 2), strings.Repeat("*", len(m.confirm)))
	fmt.Fprintln(b, "\ntab: next field | enter: register | esc: back to login | ctrl+c: quit")
}

func (m model) viewProducts(b *strings.Builder) {
	fmt.Fprintf(b, "Search%s: %s\n\n", focusTag(m.focus == paneSearch), m.searchText)

	if m.loading {
		fmt.Fprintln(b, "Loading Products")
	} else if len(m.products) == 0 {
		fmt.Fprintln(b, "No products found")
	} else {
		fmt.Fprintf(b, "Products%s:\n", focusTag(m.focus == paneGrid))
		for i, p := range m.products {
			fmt.Fprintf(b, " %s %s  $%s  (%s, %.1f*)\n",
				cursorMarker(m.focus == paneGrid && i == m.cursor),
				p.Name, p.Cost.String(), p.Category, p.Rating)
		}
	}

	if m.sess.LoggedIn() {
		fmt.Fprintln(b, "")
		items := m.items()
		if len(items) == 0 {
			fmt.Fprintln(b, "Cart is empty. Add more items to the cart to checkout.")
		} else {
			fmt.Fprintf(b, "Cart%s:\n", focusTag(m.focus == paneCart))
			for i, it := range items {
				fmt.Fprintf(b, " %s %s  x%d  $%s\n",
					cursorMarker(m.focus == paneCart && i == m.cartCursor),
					it.Product.Name, it.Qty, it.Product.Cost.String())
			}
			fmt.Fprintf(b, "Order total: $%s (%d items)\n",
				cart.TotalValue(items).String(), cart.ItemCount(items))
		}
		fmt.Fprintf(b, "\nLogged in as %s, balance $%s\n", m.sess.Username(), m.sess.Balance().String())
	} else {
		fmt.Fprintln(b, "\nNot logged in")
	}
	fmt.Fprintln(b, "/: search | tab: grid/cart | a: add to cart | +/-: quantity | c: checkout | ctrl+l: logout | q: quit")
}

func (m model) viewCheckout(b *strings.Builder) {
	fmt.Fprintln(b, "Shipping")
	addrs := m.book.Addresses()
	if len(addrs) == 0 {
		fmt.Fprintln(b, " No addresses saved. Press n to add one.")
	}
	for i, a := range addrs {
		sel := " "
		if a.ID == m.book.SelectedID() {
			sel = "*"
		}
		fmt.Fprintf(b, " %s [%s] %s\n", cursorMarker(i == m.addrCursor), sel, a.Text)
	}
	if m.addingAddr {
		fmt.Fprintf(b, "\n New address: %s\n", m.newAddress)
	}

	items := m.items()
	fmt.Fprintln(b, "\nPayment")
	fmt.Fprintln(b, " Wallet")
	fmt.Fprintf(b, " Pay $%s of available $%s\n", cart.TotalValue(items).String(), m.sess.Balance().String())

	fmt.Fprintln(b, "\nup/down: move | enter: select | n: new address | d: delete | p: place order | esc: back")
}

func (m model) viewConfirm(b *strings.Builder) {
	fmt.Fprintln(b, "Order placed!")
	fmt.Fprintf(b, " Charged $%s to your wallet.\n", m.orderTotal.String())
	fmt.Fprintf(b, " Remaining balance: $%s\n", m.sess.Balance().String())
	fmt.Fprintln(b, "\nenter: back to products | q: quit")
}

// surface maps an operation error to user-facing copy: server messages
// verbatim, everything else the generic fallback.
func surface(err error, fallback string) string {
	if be, ok := api.AsBusiness(err); ok {
		return be.Message
	}
	return fallback
}

func marker(on bool) string {
	if on {
		return ">"
	}
	return " "
}

func cursorMarker(on bool) string {
	return marker(on)
}

func focusTag(on bool) string {
	if on {
		return " [focused]"
	}
	return ""
}

// --- wiring ---

var program *tea.Program

func main() {
	endpoint := flag.String("endpoint", "", "override the storefront API endpoint")
	flag.Parse()

	cfg := config.Load()
	if *endpoint != "" {
		cfg.Endpoint = strings.TrimRight(*endpoint, "/")
	}

	log, err := logging.New(cfg.LogFile)
	if err != nil {
		fmt.Println("logger error:", err)
		os.Exit(1)
	}
	defer log.Sync()

	reg := prometheus.NewRegistry()
	m := metrics.NewClientMetrics(reg)
	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(cfg.MetricsAddr, reg); err != nil {
				log.Warn("metrics listener stopped", zap.Error(err))
			}
		}()
	}

	gw := api.New(cfg.Endpoint, cfg.RequestTimeout, log, m)
	src := catalog.NewSource(gw, log)

	mdl := newModel(cfg, log, gw, src)
	mdl.coord = search.NewCoordinator(src, cfg.DebounceWindow, func(r search.Result) {
		if program != nil {
			program.Send(searchResultMsg(r))
		}
	})

	program = tea.NewProgram(mdl)
	if _, err := program.Run(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}
