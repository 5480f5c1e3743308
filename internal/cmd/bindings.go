package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/openrazer/razerctl/translate"
)

// BindingsCommand groups key-translation subcommands. They drive the
// driver's button_translations attribute with the registry wire protocol.
type BindingsCommand struct {
	Get   BindingsGet   `cmd:"" help:"List the bindings currently set for a device"`
	Set   BindingsSet   `cmd:"" help:"Replace the bindings for a device"`
	Clear BindingsClear `cmd:"" help:"Remove all bindings for a device"`
}

// BindingsGet reads and decodes a device's binding table.
type BindingsGet struct {
	Path string `arg:"" help:"Path to the driver's button_translations attribute"`
}

func (b *BindingsGet) Run(logger *slog.Logger) error {
	data, err := os.ReadFile(b.Path)
	if err != nil {
		return err
	}
	pairs, err := translate.DecodePayload(data)
	if err != nil {
		return fmt.Errorf("unexpected payload from %s: %w", b.Path, err)
	}
	if len(pairs) == 0 {
		fmt.Println("no bindings")
		return nil
	}
	for _, p := range pairs {
		fmt.Printf("0x%04x -> 0x%04x\n", p.From, p.To)
	}
	return nil
}

// BindingsSet replaces a device's binding table with the given pairs.
type BindingsSet struct {
	Path  string   `arg:"" help:"Path to the driver's button_translations attribute"`
	Pairs []string `arg:"" name:"pair" help:"Bindings as from=to keycodes, hex or decimal (e.g. 2=0x1e)"`
}

func (b *BindingsSet) Run(logger *slog.Logger) error {
	pairs := make([]translate.KeyTranslation, 0, len(b.Pairs))
	for _, raw := range b.Pairs {
		p, err := parseBinding(raw)
		if err != nil {
			return err
		}
		pairs = append(pairs, p)
	}

	payload := translate.EncodePairs(pairs)
	if err := os.WriteFile(b.Path, payload, 0o644); err != nil {
		return err
	}
	logger.Info("bindings replaced", "path", b.Path, "count", len(pairs))
	return nil
}

// BindingsClear writes the delete sentinel, restoring default bindings.
type BindingsClear struct {
	Path string `arg:"" help:"Path to the driver's button_translations attribute"`
}

func (b *BindingsClear) Run(logger *slog.Logger) error {
	if err := os.WriteFile(b.Path, translate.DeleteSentinel, 0o644); err != nil {
		return err
	}
	logger.Info("bindings cleared", "path", b.Path)
	return nil
}

func parseBinding(s string) (translate.KeyTranslation, error) {
	from, to, ok := strings.Cut(s, "=")
	if !ok {
		return translate.KeyTranslation{}, fmt.Errorf("binding %q is not in from=to form", s)
	}
	f, err := strconv.ParseUint(from, 0, 16)
	if err != nil {
		return translate.KeyTranslation{}, fmt.Errorf("binding %q: bad source keycode: %w", s, err)
	}
	t, err := strconv.ParseUint(to, 0, 16)
	if err != nil {
		return translate.KeyTranslation{}, fmt.Errorf("binding %q: bad destination keycode: %w", s, err)
	}
	return translate.KeyTranslation{From: uint16(f), To: uint16(t)}, nil
}
