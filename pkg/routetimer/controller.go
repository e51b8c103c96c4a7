package routetimer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/jonboulle/clockwork"

	chatv1 "github.com/yhlooo/pedpong/pkg/apis/chat/v1"
)

var (
	// ErrControllerClosed 控制器已关闭
	ErrControllerClosed = errors.New("ControllerClosed")
	// ErrAlreadyStarted 控制器已启动
	ErrAlreadyStarted = errors.New("AlreadyStarted")
)

// Sender 消息发送器
type Sender interface {
	// SendMessage 发送消息，尽力而为
	SendMessage(ctx context.Context, text string) error
}

// SenderFunc 函数形式的 Sender
type SenderFunc func(ctx context.Context, text string) error

// SendMessage 发送消息
func (f SenderFunc) SendMessage(ctx context.Context, text string) error {
	return f(ctx, text)
}

// RoomSetter 房间设置器
type RoomSetter interface {
	// SetRoom 设置权威的房间标识
	SetRoom(ctx context.Context, room chatv1.RoomID) error
}

// RoomSetterFunc 函数形式的 RoomSetter
type RoomSetterFunc func(ctx context.Context, room chatv1.RoomID) error

// SetRoom 设置房间
func (f RoomSetterFunc) SetRoom(ctx context.Context, room chatv1.RoomID) error {
	return f(ctx, room)
}

// Update 状态更新
type Update struct {
	State   State
	Outcome Outcome
}

// NewController 创建房间计时控制器
func NewController(opts Options) (*Controller, error) {
	opts.Complete()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		opts:     opts,
		clock:    opts.Clock,
		state:    NewState(opts.InitialRoom, opts.Config),
		ctx:      context.Background(),
		logger:   logr.Discard(),
		watchers: make(map[chan Update]struct{}),
	}
	c.deliveryCond = sync.NewCond(&c.deliveryLock)
	return c, nil
}

// Controller 房间计时控制器
//
// 同一时刻最多只有一个计时器，任何可能改变倒计时的状态变化都会先停止旧计时器再启动新计时器
type Controller struct {
	opts  Options
	clock clockwork.Clock

	lock    sync.Mutex
	ctx     context.Context
	logger  logr.Logger
	state   State
	started bool
	closed  bool

	ticker     clockwork.Ticker
	stopTicker chan struct{}
	generation uint64

	// 副作用和通知按状态转换的顺序依次执行
	deliveryLock  sync.Mutex
	deliveryCond  *sync.Cond
	nextTicket    uint64
	servingTicket uint64

	watchersLock sync.Mutex
	watchers     map[chan Update]struct{}
}

// Start 开始计时
//
// ctx 结束时控制器自动关闭
func (c *Controller) Start(ctx context.Context) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.closed {
		return ErrControllerClosed
	}
	if c.started {
		return ErrAlreadyStarted
	}
	c.started = true
	c.ctx = ctx
	c.logger = logr.FromContextOrDiscard(ctx).WithName("routetimer")
	c.rescheduleLocked()

	c.logger.V(1).Info(fmt.Sprintf("controller started in room %q", c.state.CurrentRoom))

	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()

	return nil
}

// State 获取当前状态
func (c *Controller) State() State {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.state
}

// SetRoom 外部设置房间，并通过 RoomSetter 写入权威的房间标识
//
// 与当前房间相同时不做任何事。返回时该次变更及之前所有转换的副作用均已执行完毕
func (c *Controller) SetRoom(_ context.Context, room chatv1.RoomID) error {
	c.lock.Lock()
	if c.closed {
		c.lock.Unlock()
		return ErrControllerClosed
	}
	if err := c.applyLocked(RoomChanged(room)); err != nil {
		return fmt.Errorf("set room %q error: %w", room, err)
	}
	return nil
}

// Watch 监听状态更新
//
// 消费过慢时会丢弃更新，控制器关闭后通道被关闭
func (c *Controller) Watch() (<-chan Update, func()) {
	c.lock.Lock()
	defer c.lock.Unlock()

	ch := make(chan Update, defaultWatchChannelBuffer)
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	c.watchersLock.Lock()
	c.watchers[ch] = struct{}{}
	c.watchersLock.Unlock()

	return ch, c.stopWatch(ch)
}

// stopWatch 停止监听
func (c *Controller) stopWatch(ch chan Update) func() {
	return func() {
		c.watchersLock.Lock()
		defer c.watchersLock.Unlock()
		if _, ok := c.watchers[ch]; ok {
			delete(c.watchers, ch)
			close(ch)
		}
	}
}

// Close 关闭控制器，停止计时器
func (c *Controller) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.rescheduleLocked()

	c.watchersLock.Lock()
	for ch := range c.watchers {
		close(ch)
		delete(c.watchers, ch)
	}
	c.watchersLock.Unlock()

	c.logger.V(1).Info("controller closed")
	return nil
}

// runTicker 运行计时循环
func (c *Controller) runTicker(generation uint64, ticker clockwork.Ticker, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
		}

		c.lock.Lock()
		if c.closed || generation != c.generation {
			// 计时器已过期
			c.lock.Unlock()
			return
		}
		_ = c.applyLocked(Tick())
	}
}

// applyLocked 应用事件
//
// 调用时必须持有锁，返回时锁已释放。副作用和通知按转换顺序执行，返回副作用的错误
func (c *Controller) applyLocked(event Event) error {
	prev := c.state
	next, out := Transition(prev, event, c.opts.Config)
	c.state = next

	if out.Transition != TransitionNone || next.ActiveCountdown() != prev.ActiveCountdown() {
		c.rescheduleLocked()
	}

	if next == prev && len(out.Effects) == 0 {
		c.lock.Unlock()
		return nil
	}
	ticket := c.nextTicket
	c.nextTicket++
	ctx, logger := c.ctx, c.logger
	c.lock.Unlock()

	c.waitTurn(ticket)
	defer c.finishTurn()

	if out.Transition != TransitionNone {
		logger.Info(fmt.Sprintf(
			"room transition %s: %q -> %q (status: %q, next station: %q)",
			out.Transition, out.From, out.To, out.Status, out.NextStation,
		))
	}
	err := c.runEffects(ctx, logger, out.Effects)
	if next != prev {
		c.notify(Update{State: next, Outcome: out})
	}
	return err
}

// waitTurn 等待轮到 ticket 执行
func (c *Controller) waitTurn(ticket uint64) {
	c.deliveryLock.Lock()
	defer c.deliveryLock.Unlock()
	for c.servingTicket != ticket {
		c.deliveryCond.Wait()
	}
}

// finishTurn 结束当前轮次
func (c *Controller) finishTurn() {
	c.deliveryLock.Lock()
	defer c.deliveryLock.Unlock()
	c.servingTicket++
	c.deliveryCond.Broadcast()
}

// notify 通知监听者
func (c *Controller) notify(update Update) {
	c.watchersLock.Lock()
	defer c.watchersLock.Unlock()
	for ch := range c.watchers {
		select {
		case ch <- update:
		default:
		}
	}
}

// runEffects 执行副作用
func (c *Controller) runEffects(ctx context.Context, logger logr.Logger, effects []Effect) error {
	var errs []error
	for _, e := range effects {
		switch e.Type {
		case EffectSetRoom:
			if c.opts.RoomSetter == nil {
				continue
			}
			if err := c.opts.RoomSetter.SetRoom(ctx, e.Room); err != nil {
				logger.Error(err, fmt.Sprintf("set room %q error", e.Room))
				errs = append(errs, err)
			}
		case EffectSendMessage:
			if c.opts.Sender == nil {
				logger.V(1).Info(fmt.Sprintf("no sender, message %q dropped", e.Text))
				continue
			}
			if err := c.opts.Sender.SendMessage(ctx, e.Text); err != nil {
				logger.Error(err, fmt.Sprintf("send message %q error", e.Text))
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// rescheduleLocked 停止当前计时器并按当前状态启动新计时器
//
// 调用时必须持有锁
func (c *Controller) rescheduleLocked() {
	if c.stopTicker != nil {
		close(c.stopTicker)
		c.ticker.Stop()
		c.stopTicker = nil
		c.ticker = nil
	}
	c.generation++

	if !c.started || c.closed || c.state.ActiveCountdown() == CountdownNone {
		return
	}

	ticker := c.clock.NewTicker(time.Second)
	stop := make(chan struct{})
	c.ticker, c.stopTicker = ticker, stop
	go c.runTicker(c.generation, ticker, stop)

	c.logger.V(2).Info(fmt.Sprintf("countdown %s scheduled (generation %d)", c.state.ActiveCountdown(), c.generation))
}
