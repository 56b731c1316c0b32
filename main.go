package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/andig/growatt/growatt"
	"github.com/evcc-io/evcc/util"
	_ "github.com/joho/godotenv/autoload"
)

// val renders payload values, which the API returns as strings or numbers
// depending on endpoint and firmware.
func val(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func main() {
	username := flag.String("username", os.Getenv("GROWATT_USERNAME"), "Growatt username")
	password := flag.String("password", os.Getenv("GROWATT_PASSWORD"), "Growatt password")
	mixSn := flag.String("mixsn", os.Getenv("GROWATT_MIXSN"), "Mix serial number")
	flag.Parse()

	if *username == "" || *password == "" || *mixSn == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger := util.NewLogger("growatt")
	api := growatt.New(logger)

	login, err := api.Login(*username, *password, false)
	if err != nil {
		log.Fatal(err)
	}

	plants, err := api.PlantList(val(login["userId"]))
	if err != nil {
		log.Fatal(err)
	}

	// first plant only; multi-plant accounts are not handled
	data, _ := plants["data"].([]any)
	if len(data) == 0 {
		log.Fatal("no plants for this account")
	}
	plant, _ := data[0].(map[string]any)
	plantID := val(plant["plantId"])

	status, err := api.MixSystemStatus(*mixSn, plantID)
	if err != nil {
		log.Fatal(err)
	}

	detail, err := api.MixDetail(*mixSn, plantID, growatt.TimespanHour, time.Now())
	if err != nil {
		log.Fatal(err)
	}

	chart, _ := detail["chartData"].(map[string]any)
	times := make([]string, 0, len(chart))
	for k := range chart {
		times = append(times, k)
	}
	sort.Strings(times)

	fmt.Println("\n--- Timedata (non-zero sysOut) ---")
	for _, k := range times {
		if v, ok := chart[k].(map[string]any); ok && val(v["sysOut"]) != "0" {
			fmt.Printf("Time: %s Val: %v\n", k, v)
		}
	}

	fmt.Println("\n--- Mix System Status ---")
	fmt.Printf("PV Power           : %s W\n", val(status["ppv"]))
	fmt.Printf("From Grid          : %s W\n", val(status["pactouser"]))
	fmt.Printf("House Consumption  : %s W\n", val(status["pLocalLoad"]))
	fmt.Printf("From Battery       : %s W\n", val(status["pdisCharge1"]))

	info, err := api.MixInfo(*mixSn, plantID)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("\n--- Mix Info ---")
	fmt.Printf("Battery Charge Level: %s%%\n", val(info["soc"]))
	fmt.Printf("Production Today    : %s kWh\n", val(plant["todayEnergy"]))

	dashboard, err := api.DashboardData(plantID, growatt.TimespanHour, time.Time{})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("\n--- Dashboard Data ---")
	fmt.Printf("Total Power Load      : %s kWh\n", val(dashboard["elocalLoad"]))
	fmt.Printf("PV Power Load Today   : %s kWh\n", val(dashboard["eChargeToday1"]))
	fmt.Printf("Grid Power Load Today : %s kWh\n", val(dashboard["etouser"]))
}
