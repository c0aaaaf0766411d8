package controller

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/brightlane/uctl/internal/converters"
	"github.com/brightlane/uctl/internal/eventstream"
	"github.com/brightlane/uctl/internal/legacyclient"
	"github.com/brightlane/uctl/internal/model"
	"github.com/brightlane/uctl/internal/store"
)

const (
	clientPollInterval      = 30 * time.Second
	deviceStatsPollInterval = 2 * time.Second
	usagePollInterval       = 60 * time.Second
)

// spawnBackgroundTasks starts every poller and the websocket bridge
// bound to the connection-lifetime context (§4.7.4). Every task loop
// checks cancellation before blocking; Disconnect cancels the child
// token and c.wg.Wait() joins them all.
func (c *Controller) spawnBackgroundTasks(ctx context.Context) {
	c.spawn(ctx, c.statsMergeTask)
	c.spawn(ctx, c.commandTask)

	if c.cfg.RefreshIntervalSecs > 0 {
		c.spawn(ctx, c.refreshTask)
	}
	if c.cfg.BandwidthPollInterval() > 0 && c.legacy != nil {
		c.spawn(ctx, c.healthPollTask)
	}
	c.spawn(ctx, c.clientPollTask)
	c.spawn(ctx, c.deviceStatsPollTask)
	if c.legacy != nil {
		c.spawn(ctx, c.monthlyWanTask)
		c.spawn(ctx, c.dailyUsageTask)
	}

	if c.ws != nil {
		ws := c.ws
		c.spawn(ctx, func(ctx context.Context) {
			if err := ws.Run(ctx); err != nil && ctx.Err() == nil {
				c.warn("event stream terminated: %v", err)
			}
		})
		c.spawn(ctx, c.bridgeTask)
		c.spawn(ctx, c.wsStateTask)
	}
}

// wsStateTask mirrors websocket reconnect attempts into the
// controller-wide connection watch so consumers see Reconnecting
// without subscribing to the stream client directly (§6.2).
func (c *Controller) wsStateTask(ctx context.Context) {
	sub := c.ws.SubscribeState()
	defer sub.Unsubscribe()
	attempt := 0
	for {
		st, lagged, err := sub.Recv(ctx)
		if err != nil {
			return
		}
		if lagged > 0 {
			continue
		}
		switch st {
		case eventstream.StateReconnecting:
			attempt++
			c.store.Connection.Set(store.ConnectionState{Kind: store.ConnReconnecting, Attempt: attempt})
		case eventstream.StateConnected:
			attempt = 0
			if c.connected.Load() {
				c.store.Connection.Set(store.ConnectionState{Kind: store.ConnConnected})
			}
		}
	}
}

func (c *Controller) spawn(ctx context.Context, f func(context.Context)) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		f(ctx)
	}()
}

// statsMergeTask is the single consumer of the stats channel: every
// stats producer (REST poller, Legacy poller, websocket bridge, health
// poll) funnels through here, so writes for a given MAC land in the
// order received and a slow REST response can never clobber a newer
// stream update (§4.7.4, §9 "single stats writer").
func (c *Controller) statsMergeTask(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case upd := <-c.statsCh:
			c.store.ApplyDeviceStatsUpdate(upd)
		}
	}
}

// commandTask is the single consumer of the command channel (§4.7.6).
func (c *Controller) commandTask(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-c.cmdCh:
			req.done <- c.handleCommand(ctx, req.cmd)
		}
	}
}

// refreshTask runs a periodic full refresh for reconciliation; errors
// are logged and the task keeps ticking (§4.7.4).
func (c *Controller) refreshTask(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(c.cfg.RefreshIntervalSecs) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.fullRefresh(ctx); err != nil && ctx.Err() == nil {
				c.logger.Errorw("periodic full refresh failed", "error", err)
			}
		}
	}
}

// healthPollTask polls `stat/health` on the bandwidth cadence for WAN
// throughput and latency, and feeds the gateway's CPU/mem — reported
// only on the health payload — into the stats channel (§4.7.4).
func (c *Controller) healthPollTask(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.BandwidthPollInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			legacy := c.legacyHandle()
			if legacy == nil {
				return
			}
			health, err := legacy.GetHealth(ctx)
			if err != nil {
				if ctx.Err() == nil {
					c.logger.Debugw("health poll failed", "error", err)
				}
				continue
			}
			summaries := make([]model.HealthSummary, 0, len(health))
			for _, h := range health {
				summaries = append(summaries, converters.HealthSummaryFromLegacy(h))
				if upd, ok := gatewayStatsFromHealth(h); ok {
					c.sendStats(ctx, upd)
				}
			}
			if len(summaries) > 0 {
				c.store.SiteHealth.Set(summaries)
			}
		}
	}
}

// gatewayStatsFromHealth lifts the gw_system-stats bag off a health
// subsystem entry into a partial stats update for the gateway device.
func gatewayStatsFromHealth(h legacyclient.HealthSubsystem) (model.DeviceStatsUpdate, bool) {
	if h.GwMac == nil || h.GwSystemStats == nil {
		return model.DeviceStatsUpdate{}, false
	}
	upd := model.DeviceStatsUpdate{Mac: model.NewMacAddress(*h.GwMac)}
	if h.GwSystemStats.Cpu != nil {
		if f, err := strconv.ParseFloat(*h.GwSystemStats.Cpu, 64); err == nil {
			upd.Stats.CpuUtilizationPct = &f
		}
	}
	if h.GwSystemStats.Mem != nil {
		if f, err := strconv.ParseFloat(*h.GwSystemStats.Mem, 64); err == nil {
			upd.Stats.MemoryUtilizationPct = &f
		}
	}
	if h.GwSystemStats.Uptime != nil {
		if n, err := strconv.ParseInt(*h.GwSystemStats.Uptime, 10, 64); err == nil {
			upd.Stats.UptimeSecs = &n
		}
	}
	return upd, upd.Stats.CpuUtilizationPct != nil || upd.Stats.MemoryUtilizationPct != nil || upd.Stats.UptimeSecs != nil
}

func (c *Controller) sendStats(ctx context.Context, upd model.DeviceStatsUpdate) {
	select {
	case c.statsCh <- upd:
	case <-ctx.Done():
	}
}

// clientPollTask re-lists clients every 30 seconds as the fallback for
// push-stream outages and for configurations that cannot use the
// stream at all. The whole-kind refresh snapshot both upserts current
// clients and purges keys absent from the poll, in one publish (§4.7.4, S4).
func (c *Controller) clientPollTask(ctx context.Context) {
	ticker := time.NewTicker(clientPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.refreshClientsAndHealth(ctx, time.Now().UTC())
		}
	}
}

// deviceStatsPollTask fetches per-device statistics every 2 seconds:
// the Integration endpoint for every UUID device in parallel, plus a
// Legacy `stat/device` sweep for the fields the Integration response
// omits (§4.7.4). Both producers publish through the stats channel,
// never directly into the store.
func (c *Controller) deviceStatsPollTask(ctx context.Context) {
	ticker := time.NewTicker(deviceStatsPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.pollDeviceStatsOnce(ctx)
		}
	}
}

func (c *Controller) pollDeviceStatsOnce(ctx context.Context) {
	if c.rest != nil {
		devices := c.store.Devices.Snapshot()
		var wg sync.WaitGroup
		for _, d := range devices {
			if !d.ID.IsUUID() {
				continue
			}
			wg.Add(1)
			go func(d model.Device) {
				defer wg.Done()
				dto, err := c.rest.GetDeviceStatistics(ctx, c.siteID, d.ID.String())
				if err != nil {
					return
				}
				c.sendStats(ctx, model.DeviceStatsUpdate{
					Mac:   d.Mac,
					Stats: converters.DeviceStatsFromREST(dto),
				})
			}(d)
		}
		wg.Wait()
	}

	legacy := c.legacyHandle()
	if legacy == nil {
		return
	}
	legacyDevices, err := legacy.ListDevices(ctx)
	if err != nil {
		return
	}
	for _, ld := range legacyDevices {
		dev := converters.DeviceFromLegacy(ld, time.Now().UTC())
		upd := model.DeviceStatsUpdate{
			Mac:             dev.Mac,
			Stats:           dev.Stats,
			ClientCount:     dev.ClientCount,
			UplinkDeviceMac: dev.UplinkDeviceMac,
		}
		if dev.WanIPv6 != "" {
			v6 := dev.WanIPv6
			upd.WanIPv6 = &v6
		}
		c.sendStats(ctx, upd)
	}
}

// monthlyWanTask aggregates daily site report rows for the current
// month into the monthly WAN counter watch (§4.7.4).
func (c *Controller) monthlyWanTask(ctx context.Context) {
	ticker := time.NewTicker(usagePollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			legacy := c.legacyHandle()
			if legacy == nil {
				return
			}
			rows, err := legacy.GetSiteStats(ctx, "daily")
			if err != nil {
				continue
			}
			now := time.Now().UTC()
			monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
			var agg store.MonthlyWanBytes
			for _, r := range rows {
				if reportTime(r.Time).Before(monthStart) {
					continue
				}
				if r.WanTxB != nil {
					agg.TxBytes += *r.WanTxB
				}
				if r.WanRxB != nil {
					agg.RxBytes += *r.WanRxB
				}
			}
			c.store.MonthlyWan.Set(agg)
		}
	}
}

// dailyUsageTask aggregates per-client daily report rows for the last
// 24 hours into the client-usage watch (§4.7.4).
func (c *Controller) dailyUsageTask(ctx context.Context) {
	ticker := time.NewTicker(usagePollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			legacy := c.legacyHandle()
			if legacy == nil {
				return
			}
			rows, err := legacy.GetClientStats(ctx, "daily")
			if err != nil {
				continue
			}
			cutoff := time.Now().UTC().Add(-24 * time.Hour)
			usage := make(store.ClientDailyUsage)
			for _, r := range rows {
				if reportTime(r.Time).Before(cutoff) {
					continue
				}
				mac := ""
				if r.Mac != nil {
					mac = *r.Mac
				} else if r.User != nil {
					mac = *r.User
				}
				if mac == "" {
					continue
				}
				key := model.NewMacAddress(mac).String()
				entry := usage[key]
				if r.TxBytes != nil {
					entry.TxBytesPerSec += *r.TxBytes
				}
				if r.RxBytes != nil {
					entry.RxBytesPerSec += *r.RxBytes
				}
				usage[key] = entry
			}
			c.store.DailyUsage.Set(usage)
		}
	}
}

// reportTime accepts both epoch-second and epoch-millisecond report
// timestamps; the Legacy API switched units between firmware lines.
func reportTime(t int64) time.Time {
	if t > 1e12 {
		return time.UnixMilli(t).UTC()
	}
	return time.Unix(t, 0).UTC()
}

// bridgeTask subscribes to the websocket fan-out and translates each
// frame (§4.7.5): device sync/update frames become stats-channel
// deltas, sta:sync frames upsert the client store, and everything else
// is a real event appended to the event log. Lag signals are logged and
// skipped; the task exits only on cancellation or hub close.
func (c *Controller) bridgeTask(ctx context.Context) {
	sub := c.ws.Subscribe()
	defer sub.Unsubscribe()
	for {
		msg, lagged, err := sub.Recv(ctx)
		if err != nil {
			return
		}
		if lagged > 0 {
			c.logger.Warnw("event stream subscriber lagged", "dropped", lagged)
			continue
		}
		switch {
		case msg.Key == "device:sync" || msg.Key == "device:update":
			if upd, ok := converters.DeviceStatsUpdateFromSync(msg); ok {
				c.sendStats(ctx, upd)
			}
		case msg.Key == "sta:sync":
			if cl, ok := converters.ClientFromSync(msg, time.Now().UTC()); ok {
				c.store.Clients.Upsert(cl.Mac.String(), cl)
			}
		case !msg.IsSync():
			c.store.Events().Append(converters.EventFromWebsocket(msg))
		}
	}
}
