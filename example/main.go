package main

import (
	"errors"
	"flag"
	"net/netip"
	"os"
	"os/signal"
	"syscall"

	tun "github.com/josexy/coretun"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

var (
	tunName string = "utun5"
	tunCIDR string = "198.18.0.1/16"
	tunMTU  uint   = 1500
	verbose bool
)

func main() {
	flag.StringVar(&tunName, "name", tunName, "tun device name")
	flag.StringVar(&tunCIDR, "addr", tunCIDR, "tun device cidr address, empty to skip")
	flag.UintVar(&tunMTU, "mtu", tunMTU, "tun device mtu, 0 to skip")
	flag.BoolVar(&verbose, "v", false, "debug logging")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	var cidrs []netip.Prefix
	if tunCIDR != "" {
		prefix, err := netip.ParsePrefix(tunCIDR)
		if err != nil {
			logger.Fatal(err)
		}
		cidrs = append(cidrs, prefix)
	}

	adapter, err := tun.NewTunDevice(cidrs, &tun.Options{
		Name:   tunName,
		MTU:    uint32(tunMTU),
		Logger: logger,
	})
	if err != nil {
		logger.Fatal(err)
	}
	adapter.Show(os.Stdout)

	puller, err := adapter.Puller()
	if err != nil {
		logger.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		dump(logger, adapter.OS(), puller)
	}()

	inter := make(chan os.Signal, 1)
	signal.Notify(inter, syscall.SIGINT, syscall.SIGTERM)
	<-inter

	adapter.Close()
	<-done
	logger.Info("done")
}

func dump(logger logrus.FieldLogger, platform tun.OS, puller *tun.PullView) {
	buf := make([]byte, 65535)
	for {
		n, err := puller.Pull(buf)
		if err != nil {
			if !errors.Is(err, tun.ErrClosed) {
				logger.WithError(err).Error("pull")
			}
			return
		}
		frame := buf[:n]
		// utun prefixes every frame with the address family
		if platform == tun.OSDarwin && len(frame) >= 4 {
			frame = frame[4:]
		}
		if len(frame) == 0 {
			continue
		}
		summarize(logger, frame)
	}
}

func summarize(logger logrus.FieldLogger, frame []byte) {
	switch frame[0] >> 4 {
	case ipv4.Version:
		h, err := ipv4.ParseHeader(frame)
		if err != nil {
			logger.WithError(err).Debug("bad ipv4 header")
			return
		}
		logger.WithFields(logrus.Fields{
			"src":   h.Src,
			"dst":   h.Dst,
			"proto": h.Protocol,
			"len":   len(frame),
		}).Info("ipv4")
	case ipv6.Version:
		h, err := ipv6.ParseHeader(frame)
		if err != nil {
			logger.WithError(err).Debug("bad ipv6 header")
			return
		}
		logger.WithFields(logrus.Fields{
			"src":   h.Src,
			"dst":   h.Dst,
			"proto": h.NextHeader,
			"len":   len(frame),
		}).Info("ipv6")
	default:
		logger.WithField("len", len(frame)).Debug("unknown frame")
	}
}
