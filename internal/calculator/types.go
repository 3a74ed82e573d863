package calculator

// SetupParams is the one-time investment in the grow space.
type SetupParams struct {
	AreaM2                float64 `json:"area_m2" yaml:"area_m2" binding:"gte=0.1,lte=1000"`
	LightingEquipmentCost float64 `json:"custo_equip_iluminacao" yaml:"custo_equip_iluminacao" binding:"gte=0,lte=100000"`
	TentStructureCost     float64 `json:"custo_tenda_estrutura" yaml:"custo_tenda_estrutura" binding:"gte=0,lte=100000"`
	VentilationCost       float64 `json:"custo_ventilacao_exaustao" yaml:"custo_ventilacao_exaustao" binding:"gte=0,lte=100000"`
	OtherEquipmentCost    float64 `json:"custo_outros_equipamentos" yaml:"custo_outros_equipamentos" binding:"gte=0,lte=100000"`
}

// CycleParams holds the agronomic parameters of one cycle.
type CycleParams struct {
	Wattage          float64 `json:"potencia_watts" yaml:"potencia_watts" binding:"gte=1,lte=10000"`
	PlantCount       int     `json:"num_plantas" yaml:"num_plantas" binding:"gte=1,lte=1000"`
	YieldPerPlantG   float64 `json:"producao_por_planta_g" yaml:"producao_por_planta_g" binding:"gte=1,lte=10000"`
	VegetativeDays   int     `json:"dias_vegetativo" yaml:"dias_vegetativo" binding:"gte=1,lte=365"`
	VegLightHours    float64 `json:"horas_luz_veg" yaml:"horas_luz_veg" binding:"gte=0,lte=24"`
	FloweringDays    int     `json:"dias_floracao" yaml:"dias_floracao" binding:"gte=1,lte=365"`
	FlowerLightHours float64 `json:"horas_luz_flor" yaml:"horas_luz_flor" binding:"gte=0,lte=24"`
	DryingCuringDays int     `json:"dias_secagem_cura" yaml:"dias_secagem_cura" binding:"gte=1,lte=365"`
	// ConstantLight keeps the vegetative light schedule through flowering,
	// as autoflowering growers usually do.
	ConstantLight bool `json:"luz_constante_auto,omitempty" yaml:"luz_constante_auto,omitempty"`
}

func (c CycleParams) TotalDays() int {
	return c.VegetativeDays + c.FloweringDays + c.DryingCuringDays
}

func (c CycleParams) TotalProduction() float64 {
	return float64(c.PlantCount) * c.YieldPerPlantG
}

type MarketParams struct {
	PricePerKWh       float64 `json:"preco_kwh" yaml:"preco_kwh" binding:"gte=0,lte=10"`
	SeedCost          float64 `json:"custo_sementes_clones" yaml:"custo_sementes_clones" binding:"gte=0,lte=10000"`
	SubstrateCost     float64 `json:"custo_substrato" yaml:"custo_substrato" binding:"gte=0,lte=10000"`
	NutrientCost      float64 `json:"custo_nutrientes" yaml:"custo_nutrientes" binding:"gte=0,lte=10000"`
	MiscOperatingCost float64 `json:"custos_operacionais_misc" yaml:"custos_operacionais_misc" binding:"gte=0,lte=10000"`
	SalePricePerGram  float64 `json:"preco_venda_por_grama" yaml:"preco_venda_por_grama" binding:"gte=0,lte=1000"`
	// InformalPricePerGram is the unregulated market price. Zero leaves the
	// informal projections at zero.
	InformalPricePerGram float64 `json:"preco_venda_mercado_informal,omitempty" yaml:"preco_venda_mercado_informal,omitempty" binding:"gte=0,lte=1000"`
}

// CalculationResult is derived on every call and never persisted.
type CalculationResult struct {
	TotalInvestment      float64       `json:"custo_total_investimento"`
	TotalOperatingCost   float64       `json:"custo_operacional_total_ciclo"`
	GrossRevenue         float64       `json:"receita_bruta_ciclo"`
	NetProfit            float64       `json:"lucro_liquido_ciclo"`
	CostPerGram          float64       `json:"custo_por_grama"`
	GramsPerWatt         float64       `json:"gramas_por_watt"`
	GramsPerM2           float64       `json:"gramas_por_m2"`
	PaybackCycles        float64       `json:"periodo_payback_ciclos"`
	AnnualROI            float64       `json:"roi_investimento_1_ano"`
	TotalCycleDays       int           `json:"duracao_total_ciclo"`
	TotalProductionG     float64       `json:"producao_total_g"`
	EnergyKWh            float64       `json:"consumo_energia_kwh"`
	CyclesPerYear        int           `json:"ciclos_por_ano"`
	InformalGrossRevenue float64       `json:"receita_bruta_mercado_informal"`
	InformalNetProfit    float64       `json:"lucro_liquido_mercado_informal"`
	OperatingCosts       CostBreakdown `json:"detalhe_custos_operacionais"`
}
