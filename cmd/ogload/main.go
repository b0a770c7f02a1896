// Command ogload wires the CORE packages into a runnable load-test process.
// This is intentionally a thin loader (spec.md §1 Non-goals: "JSON
// configuration parsing and dependency-injection wiring" are external
// collaborators) — it builds one representative read/write/delete mix from
// a config.Workload and drives it, rather than a general-purpose DI
// container.
/*
 * Copyright (c) 2026, OGLoad Contributors.
 */
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/golang/glog"

	"github.com/ogload/ogload/auth"
	"github.com/ogload/ogload/body"
	"github.com/ogload/ogload/bus"
	"github.com/ogload/ogload/client"
	"github.com/ogload/ogload/cmn"
	"github.com/ogload/ogload/config"
	"github.com/ogload/ogload/driver"
	"github.com/ogload/ogload/objmgr"
	"github.com/ogload/ogload/reqgen"
	"github.com/ogload/ogload/stats"
	"github.com/ogload/ogload/supply"
)

func main() {
	cfgPath := flag.String("config", "", "path to a workload JSON file")
	flag.Parse()

	if *cfgPath == "" {
		glog.Errorf("ogload: -config is required")
		os.Exit(cmn.ExitConfiguration)
	}

	raw, err := os.ReadFile(*cfgPath)
	if err != nil {
		glog.Errorf("ogload: read config: %v", err)
		os.Exit(cmn.ExitConfiguration)
	}
	wl, err := config.Parse(raw)
	if err != nil {
		glog.Errorf("ogload: %v", err)
		os.Exit(cmn.ExitConfiguration)
	}

	code, err := run(wl)
	if err != nil {
		glog.Errorf("ogload: %v", err)
	}
	os.Exit(code)
}

func run(wl *config.Workload) (int, error) {
	mgr, err := objmgr.Open(wl.ObjectStorePath, "ogload")
	if err != nil {
		return cmn.ExitConfiguration, cmn.WrapError(cmn.ErrClassConfiguration, err, "open object manager")
	}
	defer mgr.Close()

	signer, err := buildSigner(wl.Auth)
	if err != nil {
		return cmn.ExitConfiguration, err
	}

	eventBus := bus.New()
	eventBus.Subscribe(&objmgr.ResponseSubscriber{Mgr: mgr})
	codes := stats.NewStatusCodeListener()
	eventBus.Subscribe(bus.SubscriberFunc(codes.OnResponse))
	eventBus.Subscribe(stats.NewStatisticsListener(nil))

	mix, err := buildMix(wl, mgr, signer)
	if err != nil {
		return cmn.ExitConfiguration, err
	}

	sched := buildScheduler(wl.Client)
	d := &driver.Driver{
		Supplier:  mix,
		Client:    client.New(int(wl.Client.Concurrency)),
		Scheduler: sched,
		Bus:       eventBus,
		Codes:     codes,
	}
	if wl.Stop.MaxRuntimeMs > 0 {
		d.StoppingConditions = append(d.StoppingConditions, driver.MaxElapsed(time.Duration(wl.Stop.MaxRuntimeMs)*time.Millisecond))
	}
	if wl.Stop.MaxTotalOps > 0 {
		d.StoppingConditions = append(d.StoppingConditions, driver.MaxTotalOps(wl.Stop.MaxTotalOps))
	}
	if wl.Stop.MaxAborts > 0 {
		d.StoppingConditions = append(d.StoppingConditions, driver.MaxAborts(wl.Stop.MaxAborts))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := d.Run(ctx); err != nil {
		if cmn.ClassOf(err) == cmn.ErrClassInternal {
			return cmn.ExitAborted, err
		}
	}

	fmt.Printf("ogload: %s (run %s): %d operations, %d aborts\n", wl.Name, d.RunID, codes.Total(), codes.Aborts())
	return cmn.ExitOK, nil
}

func buildSigner(a config.AuthSpec) (auth.Signer, error) {
	creds := auth.Credentials{AccessKeyID: a.Credential.Username, SecretAccessKey: a.Credential.Password}
	switch a.Type {
	case "v2":
		return &auth.V2Signer{Credentials: creds}, nil
	case "v4":
		mode := auth.PayloadSigned
		if a.Chunked {
			mode = auth.PayloadStreamingSigned
		}
		return &auth.V4Signer{Credentials: creds, Region: a.Region, Service: a.Service, Payload: mode}, nil
	case "":
		return nil, nil
	default:
		return nil, cmn.NewError(cmn.ErrClassConfiguration, "unknown auth type %q", a.Type)
	}
}

// signingGenerator wraps a reqgen.Generator's output with a Signer, the
// seam between the Request Supplier and HTTP Authentication components
// (spec.md §4.3 step 2 runs before URI/body construction; signing itself
// runs once the full request — including its final URI and body — exists).
type signingGenerator struct {
	gen    *reqgen.Generator
	signer auth.Signer
}

func (s *signingGenerator) Get(ctx context.Context) (*cmn.Request, error) {
	req, err := s.gen.Get()
	if err != nil {
		return nil, err
	}
	if s.signer != nil {
		if err := s.signer.Sign(req); err != nil {
			return nil, cmn.WrapError(cmn.ErrClassInternal, err, "sign request")
		}
	}
	return req, nil
}

// mixSupplier samples one of several driver.RequestSupplier per-call,
// weighted per the configured Workload Mix (spec.md §3, §4.7).
type mixSupplier struct {
	weighted *supply.WeightedRandom[driver.RequestSupplier]
}

func (m *mixSupplier) Get(ctx context.Context) (*cmn.Request, error) {
	return m.weighted.Get(cmn.Context{}).Get(ctx)
}

func buildMix(wl *config.Workload, mgr *objmgr.Manager, signer auth.Signer) (driver.RequestSupplier, error) {
	if len(wl.Mix) == 0 {
		return nil, cmn.NewError(cmn.ErrClassConfiguration, "workload mix must have at least one operation")
	}
	host := fmt.Sprintf("%s:%d", wl.Host, wl.Port)
	md5Cache := body.NewMD5Cache(100)

	var choices []supply.Choice[driver.RequestSupplier]
	for _, op := range wl.Mix {
		gen, err := buildGenerator(wl, op, host, mgr, md5Cache)
		if err != nil {
			return nil, err
		}
		choices = append(choices, supply.Choice[driver.RequestSupplier]{
			Value:  &signingGenerator{gen: gen, signer: signer},
			Weight: op.Weight,
		})
	}
	w, err := supply.NewWeightedRandom(choices)
	if err != nil {
		return nil, err
	}
	return &mixSupplier{weighted: w}, nil
}

func buildGenerator(wl *config.Workload, op config.OperationSpec, host string, mgr *objmgr.Manager, md5Cache *body.MD5Cache) (*reqgen.Generator, error) {
	container := op.Container
	g := &reqgen.Generator{
		Host:       supply.NewConstant(host),
		Container:  supply.NewConstant(container),
		URIRoot:    wl.URIRoot,
		APIVersion: wl.APIVersion,
		MD5Cache:   md5Cache,
	}

	switch op.Operation {
	case cmn.OpWrite:
		g.Method = "PUT"
		g.Object = supply.Func[string](func(cmn.Context) string { return cmn.GenRequestID() })
		b := op.Body.ToBody()
		g.Body = supply.NewConstant(b)
		g.Operation = cmn.OpWrite
		g.ContextProducers = append(g.ContextProducers, func(ctx *cmn.Context) {
			ctx.Set(cmn.CtxObjectSize, strconv.FormatInt(b.Size, 10))
		})

	case cmn.OpRead:
		g.Method = "GET"
		g.Object = supply.Func[string](func(cmn.Context) string {
			name, err := mgr.GetNameForRead()
			if err != nil {
				return ""
			}
			return name
		})
		g.Operation = cmn.OpRead

	case cmn.OpDelete:
		g.Method = "DELETE"
		g.Object = supply.Func[string](func(cmn.Context) string {
			name, err := mgr.GetNameForDelete()
			if err != nil {
				return ""
			}
			return name
		})
		g.Operation = cmn.OpDelete

	default:
		return nil, cmn.NewError(cmn.ErrClassConfiguration, "unknown mix operation %q", op.Operation)
	}
	return g, nil
}

func buildScheduler(c config.ClientSpec) driver.Scheduler {
	if c.IntervalDist == "" {
		concurrency := c.Concurrency
		if concurrency <= 0 {
			concurrency = 16
		}
		return driver.NewSemaphoreScheduler(concurrency)
	}
	dist := map[string]driver.Distribution{
		"constant": driver.DistConstant,
		"uniform":  driver.DistUniform,
		"poisson":  driver.DistPoisson,
	}[c.IntervalDist]
	return &driver.IntervalScheduler{Dist: dist, Mean: time.Duration(c.IntervalMeanMs) * time.Millisecond}
}
