// Package tui hosts the game window in a terminal.
package tui

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"github.com/vancomm/minesweeper-tiles/internal/view"
)

// UI is a [view.Toolkit] drawing onto a tcell screen. The window is placed
// at Origin, with its title on the row above.
type UI struct {
	screen  tcell.Screen
	log     logrus.FieldLogger
	title   string
	origin  view.Point
	widgets []*widget
}

func New(screen tcell.Screen, title string, x, y int, log logrus.FieldLogger) *UI {
	return &UI{
		screen: screen,
		log:    log,
		title:  title,
		origin: view.Point{X: max(x, 0), Y: max(y, 0) + 1},
	}
}

func (u *UI) add(w *widget) view.Widget {
	u.widgets = append(u.widgets, w)
	return w
}

func (u *UI) Tile(r view.Rect) view.Widget {
	return u.add(&widget{
		rect: r, fg: tcell.ColorBlack, bg: tcell.ColorSilver, visible: true,
	})
}

func (u *UI) TextField(r view.Rect) view.Widget {
	return u.add(&widget{
		rect: r, fg: tcell.ColorDefault, bg: tcell.ColorDefault,
		visible: true, align: alignLeft,
	})
}

func (u *UI) Button(r view.Rect, label string) view.Widget {
	return u.add(&widget{
		rect: r, label: label, fg: tcell.ColorBlack, bg: tcell.ColorSilver,
		visible: true,
	})
}

func (u *UI) draw() {
	u.screen.Clear()
	title := tcell.StyleDefault.Bold(true)
	for i, r := range []rune(u.title) {
		u.screen.SetContent(u.origin.X+i, u.origin.Y-1, r, nil, title)
	}
	for _, w := range u.widgets {
		w.draw(u.screen, u.origin)
	}
	u.screen.Show()
}

var mouseButtons = []struct {
	mask   tcell.ButtonMask
	button view.MouseButton
}{
	{tcell.ButtonPrimary, view.Primary},
	{tcell.ButtonSecondary, view.Secondary},
	{tcell.ButtonMiddle, view.Middle},
}

// Run drives win from terminal events until the player quits or ctx is done.
// The caller owns screen initialization and teardown.
func (u *UI) Run(ctx context.Context, win *view.Window) error {
	quit := false
	prevQuit := win.OnQuit
	win.OnQuit = func() {
		quit = true
		if prevQuit != nil {
			prevQuit()
		}
	}
	defer func() { win.OnQuit = prevQuit }()

	u.screen.EnableMouse()
	defer u.screen.DisableMouse()

	stop := context.AfterFunc(ctx, func() {
		u.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	var held tcell.ButtonMask
	for !quit {
		u.draw()

		switch ev := u.screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventInterrupt:
			if ctx.Err() != nil {
				return ctx.Err()
			}
		case *tcell.EventResize:
			u.screen.Sync()
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
				win.Quit()
			case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
				win.Quit()
			case ev.Key() == tcell.KeyRune && ev.Rune() == 'r':
				win.Restart()
			}
		case *tcell.EventMouse:
			buttons := ev.Buttons()
			pressed := buttons &^ held
			held = buttons
			x, y := ev.Position()
			p := view.Point{X: x - u.origin.X, Y: y - u.origin.Y}
			for _, mb := range mouseButtons {
				if pressed&mb.mask != 0 {
					u.log.WithFields(logrus.Fields{
						"x": p.X, "y": p.Y, "button": mb.button,
					}).Debug("click")
					win.Click(p, mb.button)
				}
			}
		}
	}
	return nil
}
