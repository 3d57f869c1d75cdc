package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"
	telemetryGrpc "liyu1981.xyz/sensor-telemetry-service/pkg/grpc"
)

var maxDevices int = 1000
var messagesPerDevice int = 3
var mqttBroker string = "tcp://127.0.0.1:1883"
var httpHostPort string = "127.0.0.1:1080"
var grpcHostPort string = "127.0.0.1:10801"

var grpcClient telemetryGrpc.TelemetryQueryClient

var rnd *rand.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
var rndMu sync.Mutex

func main() {
	deviceIDs := make([]string, maxDevices)
	for i := 0; i < maxDevices; i++ {
		deviceIDs[i] = "eui-" + uuid.NewString()
	}
	fmt.Printf("generated %v device IDs\n", maxDevices)

	resp, err := http.Get(fmt.Sprintf("http://%s/healthz", httpHostPort))
	if err != nil {
		log.Fatal("Failed to connect to HTTP server:", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Fatal("HTTP server not available")
	}

	fmt.Printf("http server verified\n")

	conn, err := grpc.NewClient(grpcHostPort, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Fatal("Failed to connect to gRPC server:", err)
	}
	defer conn.Close()
	grpcClient = telemetryGrpc.NewTelemetryQueryClient(conn)

	fmt.Printf("gRPC client created\n")

	opts := mqtt.NewClientOptions().
		AddBroker(mqttBroker).
		SetClientID("device1k-" + uuid.NewString()).
		SetOrderMatters(false)
	publisher := mqtt.NewClient(opts)
	if token := publisher.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal("Failed to connect to MQTT broker:", token.Error())
	}
	defer publisher.Disconnect(250)

	fmt.Printf("mqtt broker connected\n")

	var startTime time.Time
	var usedTime time.Duration

	startTime = time.Now()
	wg := sync.WaitGroup{}
	for i := 0; i < maxDevices; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < messagesPerDevice; j++ {
				publishUplink(publisher, deviceIDs[i])
			}
			fmt.Printf("\rpublished uplinks for device %v", i)
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\rpublished %v uplinks for %v devices: used time=%v seconds, throughput=%v msg/second\n",
		maxDevices*messagesPerDevice, maxDevices, usedTime.Seconds(),
		float64(maxDevices*messagesPerDevice)/usedTime.Seconds(),
	)

	// let the single consumer catch up before reading back
	time.Sleep(2 * time.Second)

	var found atomic.Int64
	startTime = time.Now()
	wg = sync.WaitGroup{}
	for i := 0; i < maxDevices; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			if readBack(deviceIDs[i]) {
				found.Add(1)
			}
		}()
	}
	wg.Wait()
	usedTime = time.Since(startTime)

	fmt.Printf(
		"\n\rread back %v/%v devices: used time=%v seconds, throughput=%v query/second\n",
		found.Load(), maxDevices, usedTime.Seconds(), float64(maxDevices)/usedTime.Seconds(),
	)
}

func flipCoin() bool {
	rndMu.Lock()
	defer rndMu.Unlock()
	return rnd.Int31n(100000)%2 == 0
}

func rndFloat64(min, max float64, decimal int) float64 {
	rndMu.Lock()
	defer rndMu.Unlock()
	val := min + rnd.Float64()*(max-min)
	multiplier := float64(math.Pow10(decimal))
	return float64(math.Round(float64(val)*float64(multiplier))) / multiplier
}

func publishUplink(client mqtt.Client, deviceID string) {
	uplink := map[string]any{
		"end_device_ids": map[string]any{
			"device_id":       deviceID,
			"application_ids": map[string]any{"application_id": "device1k"},
		},
		"uplink_message": map[string]any{
			"decoded_payload": map[string]any{
				"temperature": rndFloat64(-10.0, 40.0, 1),
				"humidity":    rndFloat64(10.0, 90.0, 0),
				"motion":      flipCoin(),
				"light":       rndFloat64(0.0, 2000.0, 0),
				"vdd":         int(rndFloat64(2900, 4200, 0)),
			},
		},
	}
	payload, _ := json.Marshal(uplink)

	topic := fmt.Sprintf("v3/device1k/devices/%s/up", deviceID)
	if token := client.Publish(topic, 1, false, payload); token.Wait() && token.Error() != nil {
		fmt.Printf("\nerror: %v\n", token.Error())
	}
}

func readBack(deviceID string) bool {
	useHttp := flipCoin()

	if useHttp {
		resp, err := http.Get(fmt.Sprintf("http://%s/api/status/%s", httpHostPort, deviceID))
		if err != nil {
			fmt.Printf("\nerror: %v\n", err)
			return false
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			fmt.Printf("\nresponse status code != 200 for %s: %v\n", deviceID, resp.StatusCode)
			return false
		}
		return true
	}

	resp, err := grpcClient.GetLatestFor(context.Background(), wrapperspb.String(deviceID))
	if err != nil {
		fmt.Printf("\nerror: %v\n", err)
		return false
	}
	status := resp.GetFields()["status"].GetStructValue().GetFields()
	if !status["success"].GetBoolValue() {
		fmt.Printf("\nresponse success = false: %v\n", status["message"].GetStringValue())
		return false
	}
	return true
}
