// Package commands implements the prefix-triggered command surface delivered
// through message-create events.
package commands

import (
	"context"
	"regexp"
	"strings"

	"warden/internal/clock"
	"warden/internal/mutes"
	"warden/internal/platform"
	"warden/internal/providers"
	"warden/internal/store"
	"warden/internal/structures"
)

var mentionPattern = regexp.MustCompile(`^<@!?(\d+)>$`)

type Invocation struct {
	Msg    platform.Message
	Member *platform.Member
	Args   []string
}

type handlerFunc func(ctx context.Context, inv *Invocation)

type Dispatcher struct {
	client   platform.Client
	store    *store.Store
	mutes    *mutes.Manager
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
	conf     *structures.Config
	clock    clock.Clock
	handlers map[string]handlerFunc
}

func NewDispatcher(client platform.Client, st *store.Store, muteMgr *mutes.Manager, logger providers.Logger, metrics providers.MetricsProviderInterface, conf *structures.Config, clk clock.Clock) *Dispatcher {
	d := &Dispatcher{
		client:  client,
		store:   st,
		mutes:   muteMgr,
		logger:  logger,
		metrics: metrics,
		conf:    conf,
		clock:   clk,
	}
	d.handlers = map[string]handlerFunc{
		"rmute":     d.cmdRmute,
		"runmute":   d.cmdRunmute,
		"rmlb":      d.cmdRmlb,
		"rcache":    d.cmdRcache,
		"tlb":       d.cmdTlb,
		"rhelp":     d.cmdRhelp,
		"timetrack": d.cmdTimetrack,
		"tt":        d.cmdTimetrack,
		"rping":     d.cmdRping,
		"rpurge":    d.cmdRpurge,
		"rdump":     d.cmdRdump,
	}
	return d
}

// Dispatch runs a command if the message carries the prefix and a known name.
// Reports whether the message was consumed as a command.
func (d *Dispatcher) Dispatch(ctx context.Context, msg platform.Message) bool {
	prefix := d.conf.Platform.CommandPrefix
	if msg.AuthorBot || !strings.HasPrefix(msg.Content, prefix) {
		return false
	}

	fields := strings.Fields(strings.TrimPrefix(msg.Content, prefix))
	if len(fields) == 0 {
		return false
	}
	name := strings.ToLower(fields[0])
	handler, ok := d.handlers[name]
	if !ok {
		return false
	}

	member, err := d.client.Member(ctx, msg.AuthorID)
	if err != nil {
		d.logger.Warnf(providers.TypeCmd, "command %s: author %s lookup failed: %s", name, msg.AuthorID, err)
		d.reply(ctx, msg.ChannelID, "Could not resolve your member record, try again.")
		return true
	}

	d.metrics.IncCommandsTotal(name)
	d.logger.Infof(providers.TypeCmd, "%s invoked by %s", name, msg.AuthorID)
	handler(ctx, &Invocation{Msg: msg, Member: member, Args: fields[1:]})
	return true
}

func (d *Dispatcher) reply(ctx context.Context, channelID, content string) {
	if err := d.client.SendMessage(ctx, channelID, content); err != nil {
		d.logger.Debugf(providers.TypeCmd, "reply dropped: %s", err)
	}
}

func (d *Dispatcher) replyEmbed(ctx context.Context, channelID string, embed *platform.Embed) {
	if err := d.client.SendEmbed(ctx, channelID, embed); err != nil {
		d.logger.Debugf(providers.TypeCmd, "reply dropped: %s", err)
	}
}

// parseMentions splits args into mention IDs and the remaining tokens,
// preserving order of the rest.
func parseMentions(args []string) (ids []string, rest []string) {
	for _, arg := range args {
		if m := mentionPattern.FindStringSubmatch(arg); m != nil {
			ids = append(ids, m[1])
			continue
		}
		rest = append(rest, arg)
	}
	return ids, rest
}
