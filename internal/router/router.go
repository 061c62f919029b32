// Package router 以显式转移表实现维度状态机：(状态, 事件) → (新状态, 动作)。
// 状态是不可变值，动作只描述该做什么，由调用方（API 层或前端）执行，
// 状态机本身不做任何 I/O。
package router

import (
	"slgmonitor/internal/model"
)

// EventKind 事件类型
type EventKind string

const (
	EvNavigate      EventKind = "navigate"
	EvSelectPeriod  EventKind = "selectPeriod"
	EvSelectCompany EventKind = "selectCompany"
	EvSelectProduct EventKind = "selectProduct"
	EvSelectSubTab  EventKind = "selectSubTab"
	EvDataArrived   EventKind = "dataArrived"
	EvDataFailed    EventKind = "dataFailed"
)

// Event 一次输入事件，字段按 Kind 选用
type Event struct {
	Kind      EventKind              `json:"kind"`
	Dimension model.Dimension        `json:"dimension,omitempty"`
	Period    *model.Period          `json:"period,omitempty"`
	Company   string                 `json:"company,omitempty"`
	Product   *model.ProductIdentity `json:"product,omitempty"`
	SubTab    string                 `json:"subTab,omitempty"`
	// Epoch 仅 dataArrived 使用：发起请求时的状态纪元
	Epoch int `json:"epoch,omitempty"`
}

// Navigate 切换维度
func Navigate(d model.Dimension) Event { return Event{Kind: EvNavigate, Dimension: d} }

// SelectPeriod 切换周期
func SelectPeriod(p model.Period) Event { return Event{Kind: EvSelectPeriod, Period: &p} }

// SelectCompany 选中公司并进入公司详情
func SelectCompany(name string) Event { return Event{Kind: EvSelectCompany, Company: name} }

// SelectProduct 选中产品并进入产品详情
func SelectProduct(id model.ProductIdentity) Event {
	return Event{Kind: EvSelectProduct, Product: &id}
}

// SelectSubTab 切换当前维度下的子页签
func SelectSubTab(tab string) Event { return Event{Kind: EvSelectSubTab, SubTab: tab} }

// DataArrived 某次数据请求的响应到达
func DataArrived(epoch int) Event { return Event{Kind: EvDataArrived, Epoch: epoch} }

// DataFailed 某次数据请求失败
func DataFailed(epoch int) Event { return Event{Kind: EvDataFailed, Epoch: epoch} }

// ActionKind 动作类型
type ActionKind string

const (
	ActShowPanel           ActionKind = "showPanel"           // 展示该维度面板, 隐藏其余
	ActSetSubTab           ActionKind = "setSubTab"           // 设置子页签
	ActFetchCompanyWeek    ActionKind = "fetchCompanyWeek"    // 拉取当周公司大盘
	ActFetchProductWeek    ActionKind = "fetchProductWeek"    // 拉取当周产品大盘
	ActComputeCompanyPanel ActionKind = "computeCompanyPanel" // 计算公司详情（可走缓存）
	ActComputeProductPanel ActionKind = "computeProductPanel" // 计算产品详情（可走缓存）
	ActFetchCreative       ActionKind = "fetchCreative"       // 拉取素材
	ActRenderPlaceholder   ActionKind = "renderPlaceholder"   // 缺少选中实体, 渲染占位, 不发请求
	ActRender              ActionKind = "render"              // 渲染已到达的数据
	ActRenderError         ActionKind = "renderError"         // 拉取失败, 面板降级为错误态, 不自动重试
	ActDiscard             ActionKind = "discard"             // 丢弃过期纪元的响应
)

// Action 状态机输出的一个动作
type Action struct {
	Kind      ActionKind             `json:"kind"`
	Dimension model.Dimension        `json:"dimension,omitempty"`
	SubTab    string                 `json:"subTab,omitempty"`
	Period    *model.Period          `json:"period,omitempty"`
	Company   string                 `json:"company,omitempty"`
	Product   *model.ProductIdentity `json:"product,omitempty"`
	// Epoch 数据动作携带发起时纪元, 响应原样带回供 dataArrived 校验
	Epoch int `json:"epoch,omitempty"`
}

// 各维度进入时的默认子页签；未列出的维度没有子页签
var defaultSubTab = map[model.Dimension]string{
	model.DimCompany:       "install",
	model.DimProduct:       "install",
	model.DimCompanyDetail: "trend",
	model.DimProductDetail: "trend",
	model.DimCreative:      "all",
}

// Transition 应用一个事件。改变展示状态的事件都使 Epoch 自增；
// dataArrived/dataFailed 是数据结果而非转移，不自增，
// 携带旧纪元时不改变状态、只输出丢弃动作。
func Transition(state model.RouteState, ev Event, elevated bool) (model.RouteState, []Action) {
	switch ev.Kind {
	case EvNavigate:
		return navigate(state, ev.Dimension, elevated)

	case EvSelectPeriod:
		next := state
		next.Period = ev.Period
		next.Epoch = state.Epoch + 1
		return next, dataActions(next)

	case EvSelectCompany:
		next := state
		next.SelectedCompany = ev.Company
		return enter(next, model.DimCompanyDetail)

	case EvSelectProduct:
		next := state
		next.SelectedProduct = ev.Product
		return enter(next, model.DimProductDetail)

	case EvSelectSubTab:
		next := state
		next.SubTab = ev.SubTab
		next.Epoch = state.Epoch + 1
		return next, append([]Action{{Kind: ActSetSubTab, SubTab: ev.SubTab}}, dataActions(next)...)

	case EvDataArrived:
		if ev.Epoch != state.Epoch {
			// 响应发起后状态已再次转移, 丢弃, 不渲染进已切走的面板
			return state, []Action{{Kind: ActDiscard, Epoch: ev.Epoch}}
		}
		return state, []Action{{Kind: ActRender, Dimension: state.Dimension, Epoch: ev.Epoch}}

	case EvDataFailed:
		if ev.Epoch != state.Epoch {
			return state, []Action{{Kind: ActDiscard, Epoch: ev.Epoch}}
		}
		// 重试只能由用户重新导航触发
		return state, []Action{{Kind: ActRenderError, Dimension: state.Dimension, Epoch: ev.Epoch}}
	}
	return state, nil
}

// navigate 维度切换入口：提权守卫与未知维度兜底都在这里，数据层不再判断
func navigate(state model.RouteState, dim model.Dimension, elevated bool) (model.RouteState, []Action) {
	if !model.KnownDimension(dim) {
		dim = model.DimCompany
	}
	if dim.Privileged() && !elevated {
		dim = model.DimCompany
	}
	return enter(state, dim)
}

// enter 进入目标维度：首次进入设默认子页签，随后给出该维度的数据动作
func enter(state model.RouteState, dim model.Dimension) (model.RouteState, []Action) {
	next := state
	fresh := state.Dimension != dim
	next.Dimension = dim
	if fresh {
		next.SubTab = defaultSubTab[dim]
	}
	next.Epoch = state.Epoch + 1

	actions := []Action{{Kind: ActShowPanel, Dimension: dim}}
	if fresh && next.SubTab != "" {
		actions = append(actions, Action{Kind: ActSetSubTab, SubTab: next.SubTab})
	}
	return next, append(actions, dataActions(next)...)
}

// dataActions 当前状态应触发的数据动作。详情类维度缺少选中实体时
// 渲染占位且不发任何请求。
func dataActions(s model.RouteState) []Action {
	switch s.Dimension {
	case model.DimCompany, model.DimCombo, model.DimBaseTable:
		return []Action{{Kind: ActFetchCompanyWeek, Period: s.Period, Epoch: s.Epoch}}

	case model.DimProduct:
		return []Action{{Kind: ActFetchProductWeek, Period: s.Period, Epoch: s.Epoch}}

	case model.DimCompanyDetail:
		if s.SelectedCompany == "" {
			return []Action{{Kind: ActRenderPlaceholder, Dimension: s.Dimension}}
		}
		return []Action{{Kind: ActComputeCompanyPanel, Period: s.Period, Company: s.SelectedCompany, Epoch: s.Epoch}}

	case model.DimProductDetail:
		if s.SelectedProduct == nil {
			return []Action{{Kind: ActRenderPlaceholder, Dimension: s.Dimension}}
		}
		return []Action{{Kind: ActComputeProductPanel, Period: s.Period, Product: s.SelectedProduct, Epoch: s.Epoch}}

	case model.DimCreative:
		if s.SelectedProduct == nil {
			return []Action{{Kind: ActRenderPlaceholder, Dimension: s.Dimension}}
		}
		return []Action{{Kind: ActFetchCreative, Period: s.Period, Product: s.SelectedProduct, Epoch: s.Epoch}}
	}
	// 运维/审批/高级查询面板自带表单, 进入时不预取数据
	return nil
}
