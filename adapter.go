package tun

import (
	"fmt"
	"io"
	"strings"

	"github.com/josexy/coretun/iface"
	"github.com/sirupsen/logrus"
)

// Adapter owns an open interface together with its two names: the kernel
// name, which the OS may rewrite while allocating, and a custom alias the
// caller picks.
type Adapter struct {
	kernelName Name
	customName Name
	iface      *Interface
	options    *Options
	log        logrus.FieldLogger
}

func New(options *Options) (*Adapter, error) {
	if options == nil {
		options = &Options{}
	}
	if options.Logger == nil {
		options.Logger = logrus.StandardLogger()
	}
	platform := options.Platform
	if platform == nil {
		native := Native()
		platform = &native
	}

	kernelName, err := NewName(options.Name)
	if err != nil {
		return nil, err
	}
	customName := kernelName

	ifc, err := OpenInterface(*platform, &kernelName)
	if err != nil {
		options.Logger.WithError(err).WithField("name", options.Name).Debug("tun: open failed")
		return nil, err
	}

	a := &Adapter{
		kernelName: kernelName,
		customName: customName,
		iface:      ifc,
		options:    options,
	}
	a.log = options.Logger.WithFields(logrus.Fields{
		"name":   kernelName.String(),
		"handle": ifc.Handle(),
		"os":     platform.OS.String(),
	})

	if platform.Configure != nil && options.needsConfigure() {
		if err = platform.Configure(kernelName.String(), options); err != nil {
			_ = ifc.Close()
			a.log.WithError(err).Debug("tun: configure failed")
			return nil, &ErrorOS{OS: platform.OS, Reason: ReasonConfig, Err: err}
		}
	}
	a.log.Debug("tun: opened")
	return a, nil
}

func (a *Adapter) KernelName() (string, error) {
	s, err := a.kernelName.Decode()
	if err != nil {
		return "", fmt.Errorf("kernel name: %w", err)
	}
	return s, nil
}

func (a *Adapter) CustomName() (string, error) {
	s, err := a.customName.Decode()
	if err != nil {
		return "", fmt.Errorf("custom name: %w", err)
	}
	return s, nil
}

// SetCustomName replaces the alias. The kernel name is not affected.
func (a *Adapter) SetCustomName(alias string) error {
	n, err := NewName(alias)
	if err != nil {
		return err
	}
	a.customName = n
	return nil
}

func (a *Adapter) Pusher() (*PushView, error) { return a.iface.Pusher() }

func (a *Adapter) Puller() (*PullView, error) { return a.iface.Puller() }

func (a *Adapter) Handle() int { return a.iface.Handle() }

func (a *Adapter) OS() OS { return a.iface.OS() }

// Link looks up the kernel's view of the device.
func (a *Adapter) Link() (*iface.Interface, error) {
	if err := iface.Flush(); err != nil {
		return nil, err
	}
	return iface.Lookup(a.kernelName.String())
}

// Close releases the device. Calling it more than once is harmless.
func (a *Adapter) Close() error {
	err := a.iface.Close()
	if err != nil {
		a.log.WithError(err).Warn("tun: close failed")
		return err
	}
	a.log.Debug("tun: closed")
	return nil
}

// Show writes both names to w.
func (a *Adapter) Show(w io.Writer) {
	const line = "----------------------------------------"
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "**              ADAPTER               **")
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "-> kernel name : %s\n", showName(a.KernelName()))
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "-> custom name : %s\n", showName(a.CustomName()))
	fmt.Fprintln(w, line)
}

func (a *Adapter) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tun(%s", showName(a.KernelName()))
	if custom := showName(a.CustomName()); custom != a.kernelName.String() {
		fmt.Fprintf(&b, " as %s", custom)
	}
	fmt.Fprintf(&b, ", handle %d)", a.Handle())
	return b.String()
}

func showName(s string, err error) string {
	if err != nil {
		return "<" + err.Error() + ">"
	}
	return s
}
